// Package storage provides lot persistence implementations.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hammamikhairi/lotbook/internal/domain"
	"github.com/hammamikhairi/lotbook/internal/logger"
)

// Compile-time interface check.
var _ domain.LotStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory lot store. Safe for concurrent access.
type MemoryStore struct {
	mu   sync.RWMutex
	lots map[string]*domain.Lot
	log  *logger.Logger
}

// NewMemoryStore creates an empty in-memory lot store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		lots: make(map[string]*domain.Lot),
		log:  log,
	}
}

// Save validates and persists a lot, assigning an ID when it has none.
// Overwrites if it already exists.
func (s *MemoryStore) Save(ctx context.Context, lot *domain.Lot) error {
	if err := prepare(lot); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving lot %s (dish=%s, number=%s, status=%s)", lot.ID, lot.DishID, lot.LotNumber, lot.Status)
	s.lots[lot.ID] = lot
	return nil
}

// Load retrieves a lot by ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (*domain.Lot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lot, ok := s.lots[id]
	if !ok {
		s.log.Debug("lot not found: %s", id)
		return nil, fmt.Errorf("lot %s: %w", id, domain.ErrNotFound)
	}
	return lot, nil
}

// Delete removes a lot by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lots[id]; !ok {
		return fmt.Errorf("lot %s: %w", id, domain.ErrNotFound)
	}
	delete(s.lots, id)
	s.log.Debug("deleted lot %s", id)
	return nil
}

// ListByDish returns the lots of one dish ordered by test date, then lot number.
func (s *MemoryStore) ListByDish(ctx context.Context, dishID string) ([]*domain.Lot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Lot
	for _, lot := range s.lots {
		if lot.DishID == dishID {
			out = append(out, lot)
		}
	}
	sortLots(out)
	s.log.Debug("listing lots for dish %s, count=%d", dishID, len(out))
	return out, nil
}

// prepare validates a lot before it is written and fills in a missing ID.
func prepare(lot *domain.Lot) error {
	if lot == nil {
		return fmt.Errorf("%w: nil lot", domain.ErrInvalidLot)
	}
	if err := lot.Validate(); err != nil {
		return err
	}
	if lot.ID == "" {
		lot.ID = uuid.NewString()
	}
	return nil
}

func sortLots(lots []*domain.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		if !lots[i].TestDate.Equal(lots[j].TestDate) {
			return lots[i].TestDate.Before(lots[j].TestDate)
		}
		return lots[i].LotNumber < lots[j].LotNumber
	})
}
