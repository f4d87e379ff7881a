// Package catalog provides dish sources and lot search.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hammamikhairi/lotbook/internal/domain"
	"github.com/hammamikhairi/lotbook/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.DishSource = (*MemorySource)(nil)
	_ domain.DishWriter = (*MemorySource)(nil)
)

// MemorySource holds dishes in memory along with the sample lots that ship
// with them. Safe for concurrent use.
type MemorySource struct {
	mu     sync.RWMutex
	dishes map[string]*domain.Dish
	lots   []*domain.Lot
	log    *logger.Logger
}

// NewMemorySource creates a dish source preloaded with the built-in dishes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := &MemorySource{
		dishes: make(map[string]*domain.Dish),
		log:    log,
	}
	src.seed()
	return src
}

// List returns summaries of all dishes ordered by name.
func (s *MemorySource) List(ctx context.Context) ([]domain.DishSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing all dishes, count=%d", len(s.dishes))

	out := make([]domain.DishSummary, 0, len(s.dishes))
	for _, d := range s.dishes {
		out = append(out, domain.DishSummary{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns a dish by ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Dish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.dishes[id]
	if !ok {
		s.log.Debug("dish not found: %s", id)
		return nil, fmt.Errorf("dish %s: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

// SaveDish adds or replaces a dish.
func (s *MemorySource) SaveDish(ctx context.Context, dish *domain.Dish) error {
	if dish == nil || dish.ID == "" {
		return fmt.Errorf("%w: dish without id", domain.ErrInvalidLot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dishes[dish.ID] = dish
	s.log.Info("dish saved: %s", dish.Name)
	return nil
}

// SampleLots returns shallow copies of the built-in lots.
func (s *MemorySource) SampleLots() []*domain.Lot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Lot, 0, len(s.lots))
	for _, l := range s.lots {
		c := *l
		out = append(out, &c)
	}
	return out
}

// Seed writes the built-in lots to store, and the built-in dishes to dst
// when dst is non-nil. Existing lots with the same IDs are overwritten.
func (s *MemorySource) Seed(ctx context.Context, store domain.LotStore, dst domain.DishWriter) (int, error) {
	if dst != nil {
		s.mu.RLock()
		dishes := make([]*domain.Dish, 0, len(s.dishes))
		for _, d := range s.dishes {
			dishes = append(dishes, d)
		}
		s.mu.RUnlock()

		for _, d := range dishes {
			if err := dst.SaveDish(ctx, d); err != nil {
				return 0, fmt.Errorf("seeding dish %s: %w", d.ID, err)
			}
		}
	}

	lots := s.SampleLots()
	for _, l := range lots {
		if err := store.Save(ctx, l); err != nil {
			return 0, fmt.Errorf("seeding lot %s: %w", l.LotNumber, err)
		}
	}
	s.log.Info("seeded %d lots", len(lots))
	return len(lots), nil
}

// seed populates the source with built-in dishes.
func (s *MemorySource) seed() {
	dish, lots := curryRice()
	s.dishes[dish.ID] = dish
	s.lots = append(s.lots, lots...)
	s.log.Debug("seeded %d dishes, %d lots", len(s.dishes), len(s.lots))
}
