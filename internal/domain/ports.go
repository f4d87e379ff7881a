package domain

import "context"

// DishSource provides dishes. Implementations can be in-memory (seeded),
// file-imported, or backed by an embedded database.
type DishSource interface {
	List(ctx context.Context) ([]DishSummary, error)
	Get(ctx context.Context, id string) (*Dish, error)
}

// DishWriter is satisfied by dish sources that accept new or updated dishes.
type DishWriter interface {
	SaveDish(ctx context.Context, dish *Dish) error
}

// LotStore persists lots. Implementations can be in-memory or BadgerDB.
type LotStore interface {
	Save(ctx context.Context, lot *Lot) error
	Load(ctx context.Context, id string) (*Lot, error)
	Delete(ctx context.Context, id string) error
	ListByDish(ctx context.Context, dishID string) ([]*Lot, error)
}
