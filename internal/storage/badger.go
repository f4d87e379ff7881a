package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/hammamikhairi/lotbook/internal/domain"
	"github.com/hammamikhairi/lotbook/internal/logger"
)

const (
	lotPrefix     = "lot:"
	dishLotPrefix = "dishlot:"
	dishPrefix    = "dish:"
)

var (
	_ domain.LotStore   = (*BadgerStore)(nil)
	_ domain.DishSource = (*BadgerStore)(nil)
	_ domain.DishWriter = (*BadgerStore)(nil)
)

// BadgerStore persists lots and dishes in BadgerDB as JSON values.
//
// Keys:
//
//	lot:<id>                 lot document
//	dishlot:<dishID>\x00<id>  empty index entry
//
// IDs may contain ':' but never NUL, so the index separator is unambiguous.
//	dish:<id>                dish document
type BadgerStore struct {
	db  *badger.DB
	log *logger.Logger
}

// OpenBadger opens (or creates) a Badger database under dataDir.
func OpenBadger(dataDir string, log *logger.Logger) (*BadgerStore, error) {
	absPath, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	opts := badger.DefaultOptions(absPath)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	log.Info("BadgerDB opened at %s", absPath)
	return &BadgerStore{db: db, log: log}, nil
}

// OpenBadgerInMemory opens a Badger database that lives only in memory.
func OpenBadgerInMemory(log *logger.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory BadgerDB: %w", err)
	}
	return &BadgerStore{db: db, log: log}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save validates and writes a lot with its dish index entry.
func (s *BadgerStore) Save(ctx context.Context, lot *domain.Lot) error {
	if err := prepare(lot); err != nil {
		return err
	}
	data, err := json.Marshal(lot)
	if err != nil {
		return fmt.Errorf("failed to marshal lot: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		// A lot moved to another dish must not stay indexed under the old one.
		var prev domain.Lot
		switch err := getJSON(txn, lotPrefix+lot.ID, &prev); {
		case err == nil && prev.DishID != lot.DishID:
			if err := txn.Delete(dishLotKey(prev.DishID, lot.ID)); err != nil {
				return err
			}
		case err != nil && !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		if err := txn.Set([]byte(lotPrefix+lot.ID), data); err != nil {
			return err
		}
		return txn.Set(dishLotKey(lot.DishID, lot.ID), nil)
	})
	if err != nil {
		return fmt.Errorf("failed to save lot %s: %w", lot.ID, err)
	}
	s.log.Debug("saved lot %s (dish=%s, number=%s)", lot.ID, lot.DishID, lot.LotNumber)
	return nil
}

// Load retrieves a lot by ID.
func (s *BadgerStore) Load(ctx context.Context, id string) (*domain.Lot, error) {
	var lot domain.Lot
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, lotPrefix+id, &lot)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			s.log.Debug("lot not found: %s", id)
			return nil, fmt.Errorf("lot %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load lot %s: %w", id, err)
	}
	return &lot, nil
}

// Delete removes a lot and its index entry.
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var lot domain.Lot
		if err := getJSON(txn, lotPrefix+id, &lot); err != nil {
			return err
		}
		if err := txn.Delete(dishLotKey(lot.DishID, id)); err != nil {
			return err
		}
		return txn.Delete([]byte(lotPrefix + id))
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("lot %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to delete lot %s: %w", id, err)
	}
	s.log.Debug("deleted lot %s", id)
	return nil
}

// ListByDish returns the lots of one dish ordered by test date, then lot number.
func (s *BadgerStore) ListByDish(ctx context.Context, dishID string) ([]*domain.Lot, error) {
	var out []*domain.Lot
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := dishLotKey(dishID, "")
		ids, err := scanKeys(txn, prefix)
		if err != nil {
			return err
		}
		for _, key := range ids {
			id := strings.TrimPrefix(key, string(prefix))
			var lot domain.Lot
			if err := getJSON(txn, lotPrefix+id, &lot); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					s.log.Warn("dangling index entry %s", key)
					continue
				}
				return err
			}
			out = append(out, &lot)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list lots for dish %s: %w", dishID, err)
	}
	sortLots(out)
	return out, nil
}

// SaveDish writes a dish document. Lots are stored separately.
func (s *BadgerStore) SaveDish(ctx context.Context, dish *domain.Dish) error {
	if dish == nil || dish.ID == "" {
		return fmt.Errorf("%w: dish without id", domain.ErrInvalidLot)
	}
	if err := domain.ValidateID(dish.ID); err != nil {
		return err
	}
	data, err := json.Marshal(dish)
	if err != nil {
		return fmt.Errorf("failed to marshal dish: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(dishPrefix+dish.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save dish %s: %w", dish.ID, err)
	}
	s.log.Debug("saved dish %s (%s)", dish.ID, dish.Name)
	return nil
}

// Get retrieves a dish by ID.
func (s *BadgerStore) Get(ctx context.Context, id string) (*domain.Dish, error) {
	var dish domain.Dish
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, dishPrefix+id, &dish)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("dish %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load dish %s: %w", id, err)
	}
	return &dish, nil
}

// List returns summaries of all stored dishes ordered by name.
func (s *BadgerStore) List(ctx context.Context) ([]domain.DishSummary, error) {
	var out []domain.DishSummary
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(dishPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var dish domain.Dish
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &dish)
			})
			if err != nil {
				return err
			}
			out = append(out, domain.DishSummary{ID: dish.ID, Name: dish.Name, Description: dish.Description})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RunGC runs one value-log garbage collection pass. A pass with nothing to
// rewrite, or an in-memory database, is not an error.
func (s *BadgerStore) RunGC() error {
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

// StartGC runs value-log GC every interval until ctx is done. The
// returned channel is closed once the routine has exited; wait on it
// before closing the store.
func (s *BadgerStore) StartGC(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Debug("BadgerDB GC routine stopped")
				return
			case <-ticker.C:
				if err := s.RunGC(); err != nil {
					s.log.Error("BadgerDB GC error: %v", err)
				}
			}
		}
	}()
	s.log.Info("started BadgerDB GC routine with interval %v", interval)
	return done
}

func dishLotKey(dishID, lotID string) []byte {
	return []byte(dishLotPrefix + dishID + "\x00" + lotID)
}

func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func scanKeys(txn *badger.Txn, prefix []byte) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, string(it.Item().KeyCopy(nil)))
	}
	return keys, nil
}
