package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"CoinSentinel/internal/event"
	"CoinSentinel/internal/model"
	"CoinSentinel/internal/quote"
	"CoinSentinel/internal/stats"
	"CoinSentinel/internal/store"
	"CoinSentinel/internal/tracker"
)

func TestTick_OneAssetFailingDoesNotAbortOthers(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := tracker.New(mem, mem, stats.NewEngine(0), event.NewBus(), time.Hour)

	source := &quote.MockSource{
		Prices: map[string]float64{"ethereum": 3200},
		Errs:   map[string]error{"bitcoin": fmt.Errorf("%w: 429", model.ErrQuoteUnavailable)},
	}
	assets := []Asset{
		{CoinID: "bitcoin", Symbol: "BTC"},
		{CoinID: "ethereum", Symbol: "ETH"},
	}

	sched := New(context.Background(), source, svc, assets, "usd")
	sched.RunNow()

	btc, err := mem.FindBySymbol(context.Background(), "BTC")
	if err != nil {
		t.Fatal(err)
	}
	if len(btc) != 0 {
		t.Errorf("failed asset must not persist, got %d samples", len(btc))
	}

	eth, err := mem.FindBySymbol(context.Background(), "ETH")
	if err != nil {
		t.Fatal(err)
	}
	if len(eth) != 1 {
		t.Fatalf("expected 1 ETH sample, got %d", len(eth))
	}
	if eth[0].Price.Value() != 3200 {
		t.Errorf("price = %v, want 3200", eth[0].Price.Value())
	}
}

func TestTick_AppendsWithoutDeduplication(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := tracker.New(mem, mem, stats.NewEngine(0), event.NewBus(), time.Hour)

	source := &quote.MockSource{Prices: map[string]float64{"bitcoin": 60000}}
	sched := New(context.Background(), source, svc, []Asset{{CoinID: "bitcoin", Symbol: "BTC"}}, "usd")

	sched.RunNow()
	sched.RunNow()

	samples, err := mem.FindBySymbol(context.Background(), "BTC")
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples for unchanged price, got %d", len(samples))
	}
}

func TestRegister_BadSpec(t *testing.T) {
	sched := New(context.Background(), &quote.MockSource{}, nil, nil, "usd")
	if err := sched.Register("not a cron spec"); err == nil {
		t.Fatal("expected error for malformed cron spec")
	}
}
