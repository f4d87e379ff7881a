// Package engine compares recipe lots against their baselines.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/lotbook/internal/catalog"
	"github.com/hammamikhairi/lotbook/internal/diff"
	"github.com/hammamikhairi/lotbook/internal/domain"
	"github.com/hammamikhairi/lotbook/internal/logger"
)

// DefaultMainTaste lists the taste items always considered for the rating
// comparison when either side rated them.
var DefaultMainTaste = []string{"スパイス感", "とろみ", "辛さ"}

// Option configures the engine.
type Option func(*Engine)

// WithTopN sets how many rating deltas are ranked as the top changes.
func WithTopN(n int) Option {
	return func(e *Engine) {
		e.topN = n
	}
}

// WithMainTaste replaces the main taste items used to select ratings.
func WithMainTaste(names []string) Option {
	return func(e *Engine) {
		e.mainTaste = names
	}
}

// WithAllAttributes compares every rated attribute instead of the default
// selection of overall, main taste and the fixed scalars.
func WithAllAttributes() Option {
	return func(e *Engine) {
		e.allAttributes = true
	}
}

// WithMaxCells bounds the LCS table size for text diffs. See diff.TextDiffer.
func WithMaxCells(n int) Option {
	return func(e *Engine) {
		e.differ.MaxCells = n
	}
}

// WithCache enables or disables memoisation of comparisons.
func WithCache(enabled bool) Option {
	return func(e *Engine) {
		e.cacheEnabled = enabled
	}
}

// LotComparison is the full difference between a lot and its baseline.
type LotComparison struct {
	Lot      *domain.Lot
	Baseline *domain.Lot

	Ingredients diff.IngredientDiff
	Steps       diff.StepDiff

	// Ratings is nil unless both lots have been evaluated.
	Ratings []diff.RatingDelta
	Top     []diff.RatingDelta

	Comments     []diff.Token
	Improvements []diff.Token

	Summary diff.Summary
}

// HasRatings reports whether a rating comparison was possible.
func (c *LotComparison) HasRatings() bool { return c.Ratings != nil }

type pairKey struct {
	baseline, current string
}

// Engine resolves lots and their baselines and diffs them. It depends only
// on interfaces and is fully testable with in-memory implementations.
type Engine struct {
	dishes domain.DishSource
	lots   domain.LotStore
	log    *logger.Logger

	topN          int
	mainTaste     []string
	allAttributes bool
	differ        diff.TextDiffer

	cacheEnabled bool
	mu           sync.Mutex
	cache        map[pairKey]*LotComparison
}

// New creates an engine with the given dependencies and options.
func New(dishes domain.DishSource, lots domain.LotStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		dishes:       dishes,
		lots:         lots,
		log:          log,
		topN:         3,
		mainTaste:    DefaultMainTaste,
		cacheEnabled: true,
		cache:        make(map[pairKey]*LotComparison),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListDishes returns all available dishes.
func (e *Engine) ListDishes(ctx context.Context) ([]domain.DishSummary, error) {
	return e.dishes.List(ctx)
}

// GetDish returns a full dish by ID.
func (e *Engine) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	return e.dishes.Get(ctx, id)
}

// ListLots returns the lots of a dish.
func (e *Engine) ListLots(ctx context.Context, dishID string) ([]*domain.Lot, error) {
	if _, err := e.dishes.Get(ctx, dishID); err != nil {
		return nil, fmt.Errorf("getting dish: %w", err)
	}
	return e.lots.ListByDish(ctx, dishID)
}

// SearchLots returns the lots of a dish matching query.
func (e *Engine) SearchLots(ctx context.Context, dishID, query string) ([]*domain.Lot, error) {
	lots, err := e.ListLots(ctx, dishID)
	if err != nil {
		return nil, err
	}
	found := catalog.Search(lots, query)
	e.log.Debug("search %q in dish %s: %d of %d lots", query, dishID, len(found), len(lots))
	return found, nil
}

// GetLot returns a lot by ID.
func (e *Engine) GetLot(ctx context.Context, id string) (*domain.Lot, error) {
	return e.lots.Load(ctx, id)
}

// SaveLot persists a lot and drops any cached comparison involving it.
func (e *Engine) SaveLot(ctx context.Context, lot *domain.Lot) error {
	if lot.BaselineLotID != "" {
		if _, err := e.lots.Load(ctx, lot.BaselineLotID); err != nil {
			return fmt.Errorf("loading baseline: %w", err)
		}
	}
	if err := e.lots.Save(ctx, lot); err != nil {
		return fmt.Errorf("saving lot: %w", err)
	}
	e.Invalidate(lot.ID)
	e.log.Info("saved lot %s (%s)", lot.LotNumber, lot.ID)
	return nil
}

// DeleteLot removes a lot and drops any cached comparison involving it.
func (e *Engine) DeleteLot(ctx context.Context, id string) error {
	if err := e.lots.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting lot: %w", err)
	}
	e.Invalidate(id)
	return nil
}

// Evaluate records an evaluation for a lot and marks it evaluated.
// Ratings are checked against the dish's scales; eval itself is not modified.
func (e *Engine) Evaluate(ctx context.Context, lotID string, eval *domain.Evaluation) (*domain.Lot, error) {
	lot, err := e.lots.Load(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("loading lot: %w", err)
	}

	var settings domain.EvaluationSettings
	dish, err := e.dishes.Get(ctx, lot.DishID)
	switch {
	case err == nil:
		settings = dish.Settings
	case errors.Is(err, domain.ErrNotFound):
		e.log.Warn("dish %s not found, checking ratings against default scales", lot.DishID)
	default:
		return nil, fmt.Errorf("getting dish: %w", err)
	}

	recorded := *eval
	if err := recorded.Validate(settings); err != nil {
		return nil, fmt.Errorf("lot %s: %w", lot.LotNumber, err)
	}
	if recorded.EvaluatedAt.IsZero() {
		recorded.EvaluatedAt = time.Now()
	}
	updated := *lot
	updated.Evaluation = &recorded
	updated.Status = domain.LotEvaluated
	if err := e.SaveLot(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Compare diffs a lot against a baseline. An empty baselineID uses the
// lot's own baseline reference. Results are memoised per lot pair until
// either lot is saved or deleted through the engine, or Invalidate is called.
func (e *Engine) Compare(ctx context.Context, lotID, baselineID string) (*LotComparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lot, err := e.lots.Load(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("loading lot: %w", err)
	}
	if baselineID == "" {
		baselineID = lot.BaselineLotID
	}
	if baselineID == "" {
		return nil, fmt.Errorf("lot %s: %w", lot.LotNumber, domain.ErrNoBaseline)
	}
	if baselineID == lot.ID {
		return nil, fmt.Errorf("%w: lot %s compared with itself", domain.ErrInvalidLot, lot.LotNumber)
	}

	key := pairKey{baseline: baselineID, current: lot.ID}
	if cmp := e.cached(key); cmp != nil {
		e.log.Debug("comparison cache hit %s -> %s", baselineID, lot.ID)
		return cmp, nil
	}

	baseline, err := e.lots.Load(ctx, baselineID)
	if err != nil {
		return nil, fmt.Errorf("loading baseline: %w", err)
	}
	if baseline.DishID != lot.DishID {
		e.log.Warn("comparing lots of different dishes: %s (%s) vs %s (%s)",
			baseline.LotNumber, baseline.DishID, lot.LotNumber, lot.DishID)
	}

	cmp, err := e.compareLots(ctx, baseline, lot)
	if err != nil {
		return nil, err
	}
	e.store(key, cmp)
	e.log.Debug("compared %s -> %s: %d ingredient entries, %d step entries, %d ratings",
		baseline.LotNumber, lot.LotNumber, len(cmp.Ingredients.Entries), len(cmp.Steps.Entries), len(cmp.Ratings))
	return cmp, nil
}

// CompareLots diffs two lots directly, without lookups or caching.
func (e *Engine) CompareLots(ctx context.Context, baseline, current *domain.Lot) (*LotComparison, error) {
	return e.compareLots(ctx, baseline, current)
}

func (e *Engine) compareLots(ctx context.Context, baseline, current *domain.Lot) (*LotComparison, error) {
	cmp := &LotComparison{
		Lot:         current,
		Baseline:    baseline,
		Ingredients: diff.DiffIngredients(baseline.Recipe.Ingredients, current.Recipe.Ingredients),
		Steps:       e.differ.Steps(baseline.Recipe.Steps, current.Recipe.Steps),
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if baseline.HasEvaluation() && current.HasEvaluation() {
		b := &baseline.Evaluation.RatedAttributeSet
		c := &current.Evaluation.RatedAttributeSet

		names, err := e.attributes(ctx, current.DishID, b, c)
		if err != nil {
			return nil, err
		}
		cmp.Ratings = diff.DiffRatings(b, c, names)
		cmp.Top = diff.TopN(cmp.Ratings, e.topN)
	} else {
		e.log.Debug("no rating comparison for %s: evaluation missing", current.LotNumber)
	}

	var bc, cc, bi, ci string
	if baseline.HasEvaluation() {
		bc, bi = baseline.Evaluation.Comments, baseline.Evaluation.Improvements
	}
	if current.HasEvaluation() {
		cc, ci = current.Evaluation.Comments, current.Evaluation.Improvements
	}
	cmp.Comments = e.differ.Lines(bc, cc)
	cmp.Improvements = e.differ.Lines(bi, ci)

	cmp.Summary = diff.Summarize(cmp.Ingredients, cmp.Steps, diff.DefaultSummaryItems)
	return cmp, nil
}

func (e *Engine) attributes(ctx context.Context, dishID string, b, c *domain.RatedAttributeSet) ([]string, error) {
	if !e.allAttributes {
		return diff.DefaultAttributes(e.mainTaste, b, c), nil
	}
	var settings domain.EvaluationSettings
	dish, err := e.dishes.Get(ctx, dishID)
	switch {
	case err == nil:
		settings = dish.Settings
	case errors.Is(err, domain.ErrNotFound):
		e.log.Warn("dish %s not found, comparing rated attributes only", dishID)
	default:
		return nil, fmt.Errorf("getting dish: %w", err)
	}
	return diff.AllAttributes(settings, b, c), nil
}

// Invalidate drops cached comparisons that involve lotID on either side.
func (e *Engine) Invalidate(lotID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k := range e.cache {
		if k.baseline == lotID || k.current == lotID {
			delete(e.cache, k)
		}
	}
}

func (e *Engine) cached(key pairKey) *LotComparison {
	if !e.cacheEnabled {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache[key]
}

func (e *Engine) store(key pairKey, cmp *LotComparison) {
	if !e.cacheEnabled {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache[key] = cmp
}
