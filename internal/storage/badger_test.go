package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hammamikhairi/lotbook/internal/domain"
	"github.com/hammamikhairi/lotbook/internal/logger"
)

func openTestBadger(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := OpenBadgerInMemory(logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBadgerStoreCRUD(t *testing.T) {
	storeContract(t, openTestBadger(t))
}

func TestBadgerStoreRoundTripsEvaluation(t *testing.T) {
	store := openTestBadger(t)
	ctx := context.Background()

	lot := testLot("lot-1", "curry", "CR-2023-001", 1)
	lot.Status = domain.LotEvaluated
	lot.Evaluation = &domain.Evaluation{
		RatedAttributeSet: domain.RatedAttributeSet{
			OverallRating: 4,
			TasteProfiles: map[string]int{"辛さ": 2},
			Texture:       3,
		},
		Comments:    "標準的な味わい",
		EvaluatedBy: "佐藤 花子",
		EvaluatedAt: time.Date(2023, time.June, 2, 0, 0, 0, 0, time.UTC),
	}
	if err := store.Save(ctx, lot); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx, "lot-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d := cmp.Diff(lot, got); d != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", d)
	}
}

func TestBadgerStoreMoveBetweenDishes(t *testing.T) {
	store := openTestBadger(t)
	ctx := context.Background()

	lot := testLot("lot-1", "curry", "CR-2023-001", 1)
	if err := store.Save(ctx, lot); err != nil {
		t.Fatalf("save: %v", err)
	}
	lot.DishID = "hayashi"
	if err := store.Save(ctx, lot); err != nil {
		t.Fatalf("resave: %v", err)
	}

	curry, _ := store.ListByDish(ctx, "curry")
	hayashi, _ := store.ListByDish(ctx, "hayashi")
	if len(curry) != 0 || len(hayashi) != 1 {
		t.Fatalf("expected lot under hayashi only, got curry=%d hayashi=%d", len(curry), len(hayashi))
	}
}

func TestBadgerStoreDishes(t *testing.T) {
	store := openTestBadger(t)
	ctx := context.Background()

	dishes := []*domain.Dish{
		{ID: "d2", Name: "ハヤシライス"},
		{ID: "d1", Name: "カレーライス", Description: "定番", Settings: domain.EvaluationSettings{
			Items: []domain.EvaluationItem{{ID: 1, Name: "辛さ", Type: domain.ItemSlider, Scale: 10, Enabled: true, Order: 1}},
		}},
	}
	for _, d := range dishes {
		if err := store.SaveDish(ctx, d); err != nil {
			t.Fatalf("save dish: %v", err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []domain.DishSummary{
		{ID: "d1", Name: "カレーライス", Description: "定番"},
		{ID: "d2", Name: "ハヤシライス"},
	}
	if d := cmp.Diff(want, list); d != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", d)
	}

	got, err := store.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Settings.Scale("辛さ") != 10 {
		t.Fatalf("expected scale 10, got %d", got.Settings.Scale("辛さ"))
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.SaveDish(ctx, &domain.Dish{}); err == nil {
		t.Fatal("expected error for dish without id")
	}
}

func TestBadgerStoreGCInMemory(t *testing.T) {
	store := openTestBadger(t)
	if err := store.RunGC(); err != nil {
		t.Fatalf("expected in-memory GC to be a no-op, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := store.StartGC(ctx, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected GC routine to exit after cancel")
	}
}

func TestBadgerStoreColonInIDs(t *testing.T) {
	store := openTestBadger(t)
	ctx := context.Background()

	// Joined with ':' these two would share one index key.
	first := testLot("b:c", "a", "A-001", 1)
	second := testLot("c", "a:b", "AB-001", 2)
	for _, l := range []*domain.Lot{first, second} {
		if err := store.Save(ctx, l); err != nil {
			t.Fatalf("save %s: %v", l.ID, err)
		}
	}

	a, err := store.ListByDish(ctx, "a")
	if err != nil {
		t.Fatalf("list a: %v", err)
	}
	if len(a) != 1 || a[0].ID != "b:c" {
		t.Fatalf("expected only lot b:c under dish a, got %d lots", len(a))
	}

	if err := store.Delete(ctx, "c"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	a, _ = store.ListByDish(ctx, "a")
	ab, _ := store.ListByDish(ctx, "a:b")
	if len(a) != 1 || len(ab) != 0 {
		t.Fatalf("expected a=1 a:b=0 after delete, got a=%d a:b=%d", len(a), len(ab))
	}
}

func TestBadgerStoreRejectsNulIDs(t *testing.T) {
	store := openTestBadger(t)
	ctx := context.Background()

	if err := store.Save(ctx, testLot("x", "a\x00b", "A-001", 1)); !errors.Is(err, domain.ErrInvalidLot) {
		t.Fatalf("expected ErrInvalidLot for NUL dish id, got %v", err)
	}
	if err := store.Save(ctx, testLot("x\x00y", "a", "A-001", 1)); !errors.Is(err, domain.ErrInvalidLot) {
		t.Fatalf("expected ErrInvalidLot for NUL lot id, got %v", err)
	}
	if err := store.SaveDish(ctx, &domain.Dish{ID: "d\x00"}); !errors.Is(err, domain.ErrInvalidLot) {
		t.Fatalf("expected ErrInvalidLot for NUL dish id, got %v", err)
	}
}
