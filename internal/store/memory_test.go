package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"CoinSentinel/internal/model"
)

func TestMemoryStore_PriceOrdering(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()
	t0 := time.Now()

	// Insert out of order.
	for _, offset := range []time.Duration{time.Hour, 0, 2 * time.Hour} {
		s := model.NewPriceSample("BTC", 100, t0.Add(offset))
		if _, err := mem.SavePrice(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := mem.SavePrice(ctx, model.NewPriceSample("ETH", 10, t0)); err != nil {
		t.Fatal(err)
	}

	desc, err := mem.FindBySymbol(ctx, "BTC")
	if err != nil {
		t.Fatal(err)
	}
	if len(desc) != 3 {
		t.Fatalf("expected 3 BTC samples, got %d", len(desc))
	}
	for i := 1; i < len(desc); i++ {
		if desc[i].Timestamp.After(desc[i-1].Timestamp) {
			t.Fatal("FindBySymbol must return newest first")
		}
	}

	asc, err := mem.FindBySymbolInRange(ctx, "BTC", t0, t0.Add(2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(asc) != 3 {
		t.Fatalf("expected 3 samples in range, got %d", len(asc))
	}
	for i := 1; i < len(asc); i++ {
		if asc[i].Timestamp.Before(asc[i-1].Timestamp) {
			t.Fatal("FindBySymbolInRange must return oldest first")
		}
	}
}

func TestMemoryStore_RangeInclusiveBounds(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()
	t0 := time.Now()

	for _, offset := range []time.Duration{-time.Minute, 0, time.Hour, time.Hour + time.Minute} {
		if _, err := mem.SavePrice(ctx, model.NewPriceSample("BTC", 1, t0.Add(offset))); err != nil {
			t.Fatal(err)
		}
	}

	got, err := mem.FindBySymbolInRange(ctx, "BTC", t0, t0.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both boundary samples, got %d", len(got))
	}
}

func TestMemoryStore_IdentityAssignment(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()

	a, err := mem.SavePrice(ctx, model.NewPriceSample("BTC", 1, time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	b, err := mem.SavePrice(ctx, model.NewPriceSample("BTC", 2, time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
		t.Errorf("expected distinct non-zero ids, got %d and %d", a.ID, b.ID)
	}

	found, err := mem.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if found.Price != a.Price {
		t.Error("FindByID returned the wrong sample")
	}
	if _, err := mem.FindByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Stats(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()
	t0 := time.Now()

	if _, err := mem.FindLatest(ctx, "BTC", model.Period7d); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	for i, age := range []time.Duration{2 * time.Hour, time.Hour, 0} {
		rec, err := model.NewStatsRecord("BTC", model.Period7d, float64(i+1), 0, model.TrendStable, t0.Add(-age))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := mem.SaveStats(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	// Different pair, must not leak in.
	other, _ := model.NewStatsRecord("BTC", model.Period1d, 9, 0, model.TrendStable, t0)
	if _, err := mem.SaveStats(ctx, other); err != nil {
		t.Fatal(err)
	}

	latest, err := mem.FindLatest(ctx, "BTC", model.Period7d)
	if err != nil {
		t.Fatal(err)
	}
	if latest.Average != 3 {
		t.Errorf("latest average = %v, want 3", latest.Average)
	}

	all, err := mem.FindAll(ctx, "BTC", model.Period7d)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CalculatedAt.After(all[i-1].CalculatedAt) {
			t.Fatal("FindAll must return newest calculation first")
		}
	}
}
