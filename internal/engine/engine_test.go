package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hammamikhairi/lotbook/internal/catalog"
	"github.com/hammamikhairi/lotbook/internal/diff"
	"github.com/hammamikhairi/lotbook/internal/domain"
	"github.com/hammamikhairi/lotbook/internal/logger"
	"github.com/hammamikhairi/lotbook/internal/storage"
)

func setupEngine(t *testing.T, opts ...Option) (*Engine, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	dishes := catalog.NewMemorySource(log)
	store := storage.NewMemoryStore(log)
	ctx := context.Background()
	if _, err := dishes.Seed(ctx, store, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return New(dishes, store, log, opts...), ctx
}

func deltaNames(deltas []diff.RatingDelta) []string {
	out := make([]string, 0, len(deltas))
	for _, d := range deltas {
		out = append(out, d.Name)
	}
	return out
}

func TestCompareAddedIngredientsAndStep(t *testing.T) {
	eng, ctx := setupEngine(t)

	got, err := eng.Compare(ctx, "CR-2023-002", "")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if got.Baseline.ID != "CR-2023-001" {
		t.Fatalf("expected baseline CR-2023-001, got %s", got.Baseline.ID)
	}

	var added []string
	for _, it := range got.Ingredients.Added {
		added = append(added, it.Name)
	}
	if d := cmp.Diff([]string{"ガラムマサラ", "唐辛子"}, added); d != "" {
		t.Fatalf("added ingredients mismatch (-want +got):\n%s", d)
	}
	if len(got.Ingredients.Modified) != 0 || len(got.Ingredients.Removed) != 0 {
		t.Fatalf("unexpected ingredient changes: %+v", got.Ingredients)
	}
	if len(got.Steps.Added) != 1 || got.Steps.Added[0].Order != 8 {
		t.Fatalf("expected step 8 added, got %+v", got.Steps.Added)
	}

	want := diff.Summary{
		Ingredients: []diff.SummaryLine{{Status: diff.EntryAdded, Text: "added ガラムマサラ, 唐辛子"}},
		Steps:       []diff.SummaryLine{{Status: diff.EntryAdded, Text: "added step 8"}},
	}
	if d := cmp.Diff(want, got.Summary); d != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", d)
	}
}

func TestCompareRatings(t *testing.T) {
	eng, ctx := setupEngine(t)

	got, err := eng.Compare(ctx, "CR-2023-002", "")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !got.HasRatings() {
		t.Fatal("expected ratings for two evaluated lots")
	}

	wantAll := []string{domain.AttrOverall, "スパイス感", "とろみ", "辛さ", domain.AttrAppearance, domain.AttrTexture, domain.AttrAroma}
	if d := cmp.Diff(wantAll, deltaNames(got.Ratings)); d != "" {
		t.Fatalf("rating selection mismatch (-want +got):\n%s", d)
	}
	// 辛さ +5, とろみ -2, then the first of the four 1-point changes.
	if d := cmp.Diff([]string{"辛さ", "とろみ", domain.AttrOverall}, deltaNames(got.Top)); d != "" {
		t.Fatalf("top changes mismatch (-want +got):\n%s", d)
	}
	if got.Top[0].Delta != 5 || got.Top[1].Delta != -2 {
		t.Fatalf("unexpected top deltas: %+v", got.Top)
	}
}

func TestCompareOptions(t *testing.T) {
	eng, ctx := setupEngine(t, WithTopN(1), WithAllAttributes())

	got, err := eng.Compare(ctx, "CR-2023-003", "")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(got.Top) != 1 {
		t.Fatalf("expected 1 top change, got %d", len(got.Top))
	}
	// overall, 8 settings items, appearance, texture, aroma.
	if len(got.Ratings) != 12 {
		t.Fatalf("expected 12 compared attributes, got %d: %v", len(got.Ratings), deltaNames(got.Ratings))
	}
}

func TestCompareBaselineOverride(t *testing.T) {
	eng, ctx := setupEngine(t)

	got, err := eng.Compare(ctx, "CR-2023-003", "CR-2023-002")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if got.Baseline.ID != "CR-2023-002" {
		t.Fatalf("expected override baseline, got %s", got.Baseline.ID)
	}

	var removed []string
	for _, it := range got.Ingredients.Removed {
		removed = append(removed, it.Name)
	}
	if d := cmp.Diff([]string{"ガラムマサラ", "唐辛子"}, removed); d != "" {
		t.Fatalf("removed ingredients mismatch (-want +got):\n%s", d)
	}
}

func TestCompareErrors(t *testing.T) {
	eng, ctx := setupEngine(t)

	tests := []struct {
		name     string
		lot      string
		baseline string
		wantErr  error
	}{
		{"unknown lot", "nonexistent", "", domain.ErrNotFound},
		{"unknown baseline", "CR-2023-002", "nonexistent", domain.ErrNotFound},
		{"first lot has no baseline", "CR-2023-001", "", domain.ErrNoBaseline},
		{"compared with itself", "CR-2023-002", "CR-2023-002", domain.ErrInvalidLot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.Compare(ctx, tt.lot, tt.baseline)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := eng.Compare(canceled, "CR-2023-002", ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCompareWithoutEvaluation(t *testing.T) {
	eng, ctx := setupEngine(t)

	lot, err := eng.GetLot(ctx, "CR-2023-003")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	planned := *lot
	planned.ID = "CR-2023-004"
	planned.LotNumber = "CR-2023-004"
	planned.Status = domain.LotPlanned
	planned.Evaluation = nil
	if err := eng.SaveLot(ctx, &planned); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := eng.Compare(ctx, "CR-2023-004", "")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if got.HasRatings() || got.Top != nil {
		t.Fatalf("expected no rating section, got %+v", got.Ratings)
	}
	if len(got.Ingredients.Modified) != 5 {
		t.Fatalf("expected 5 modified ingredients, got %d", len(got.Ingredients.Modified))
	}
	// Baseline comments show up as removed lines.
	if !diff.Changed(got.Comments) || len(diff.Current(got.Comments)) != 0 {
		t.Fatalf("unexpected comment diff: %+v", got.Comments)
	}
}

func TestCompareCacheAndInvalidate(t *testing.T) {
	eng, ctx := setupEngine(t)

	first, err := eng.Compare(ctx, "CR-2023-002", "")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	second, _ := eng.Compare(ctx, "CR-2023-002", "")
	if first != second {
		t.Fatal("expected memoised comparison")
	}

	lot, _ := eng.GetLot(ctx, "CR-2023-002")
	updated := *lot
	updated.Recipe.Ingredients = append([]domain.Ingredient{}, lot.Recipe.Ingredients[:7]...)
	if err := eng.SaveLot(ctx, &updated); err != nil {
		t.Fatalf("save: %v", err)
	}

	third, err := eng.Compare(ctx, "CR-2023-002", "")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if third == first || len(third.Ingredients.Added) != 0 {
		t.Fatalf("expected a fresh comparison without added ingredients, got %+v", third.Ingredients.Added)
	}

	noCache, ctx := setupEngine(t, WithCache(false))
	a, _ := noCache.Compare(ctx, "CR-2023-002", "")
	b, _ := noCache.Compare(ctx, "CR-2023-002", "")
	if a == b {
		t.Fatal("expected fresh comparisons with caching disabled")
	}
}

func TestEvaluate(t *testing.T) {
	eng, ctx := setupEngine(t)

	lot, _ := eng.GetLot(ctx, "CR-2023-002")
	planned := *lot
	planned.ID = "CR-2023-005"
	planned.LotNumber = "CR-2023-005"
	planned.Evaluation = nil
	planned.Status = domain.LotCooked
	if err := eng.SaveLot(ctx, &planned); err != nil {
		t.Fatalf("save: %v", err)
	}

	before, _ := eng.Compare(ctx, "CR-2023-005", "")
	if before.HasRatings() {
		t.Fatal("expected no ratings before evaluation")
	}

	got, err := eng.Evaluate(ctx, "CR-2023-005", &domain.Evaluation{
		RatedAttributeSet: domain.RatedAttributeSet{
			OverallRating: 4,
			TasteProfiles: map[string]int{"スパイス感": 4, "とろみ": 5, "辛さ": 9},
			Appearance:    4,
			Texture:       3,
			Aroma:         4,
		},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got.Status != domain.LotEvaluated || got.Evaluation.EvaluatedAt.IsZero() {
		t.Fatalf("unexpected evaluated lot %+v", got)
	}

	after, _ := eng.Compare(ctx, "CR-2023-005", "")
	if !after.HasRatings() || after.Top[0].Name != "辛さ" {
		t.Fatalf("expected ratings led by 辛さ, got %+v", after.Top)
	}

	if _, err := eng.Evaluate(ctx, "nonexistent", &domain.Evaluation{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEvaluateRatingRange(t *testing.T) {
	tests := []struct {
		name string
		set  domain.RatedAttributeSet
		ok   bool
	}{
		{"within scales", domain.RatedAttributeSet{OverallRating: 5, TasteProfiles: map[string]int{"辛さ": 10, "とろみ": 7}}, true},
		{"all zero", domain.RatedAttributeSet{}, true},
		{"negative overall", domain.RatedAttributeSet{OverallRating: -7}, false},
		{"texture above five", domain.RatedAttributeSet{Texture: 99}, false},
		{"slider above its scale", domain.RatedAttributeSet{TasteProfiles: map[string]int{"とろみ": 8}}, false},
		{"star above its scale", domain.RatedAttributeSet{CustomStarRatings: map[string]int{"具材のバランス": 6}}, false},
		{"unknown item above default", domain.RatedAttributeSet{TasteProfiles: map[string]int{"苦味": 6}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, ctx := setupEngine(t)
			_, err := eng.Evaluate(ctx, "CR-2023-003", &domain.Evaluation{RatedAttributeSet: tt.set})
			if tt.ok && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !tt.ok {
				if !errors.Is(err, domain.ErrInvalidRating) {
					t.Fatalf("expected ErrInvalidRating, got %v", err)
				}
				lot, _ := eng.GetLot(ctx, "CR-2023-003")
				if lot.Evaluation.OverallRating != 5 {
					t.Fatalf("expected stored evaluation untouched, got %+v", lot.Evaluation)
				}
			}
		})
	}
}

func TestEvaluateLeavesInputUnchanged(t *testing.T) {
	eng, ctx := setupEngine(t)

	eval := &domain.Evaluation{RatedAttributeSet: domain.RatedAttributeSet{OverallRating: 3}}
	got, err := eng.Evaluate(ctx, "CR-2023-002", eval)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !eval.EvaluatedAt.IsZero() {
		t.Fatalf("expected caller's evaluation unchanged, got EvaluatedAt %v", eval.EvaluatedAt)
	}
	if got.Evaluation == eval || got.Evaluation.EvaluatedAt.IsZero() {
		t.Fatalf("expected a stamped copy, got %+v", got.Evaluation)
	}
}

func TestSearchLots(t *testing.T) {
	eng, ctx := setupEngine(t)

	got, err := eng.SearchLots(ctx, catalog.CurryRiceID, "唐辛子")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "CR-2023-002" {
		t.Fatalf("unexpected search result %+v", got)
	}

	if _, err := eng.SearchLots(ctx, "nonexistent", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteLot(t *testing.T) {
	eng, ctx := setupEngine(t)

	if _, err := eng.Compare(ctx, "CR-2023-003", ""); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := eng.DeleteLot(ctx, "CR-2023-001"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := eng.Compare(ctx, "CR-2023-003", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected missing baseline after delete, got %v", err)
	}
}
