package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"CoinSentinel/internal/event"
	"CoinSentinel/internal/model"
	"CoinSentinel/internal/stats"
	"CoinSentinel/internal/store"
)

// DefaultFreshness is the maximum age of a cached stats record before it is
// recomputed. Placeholder policy value, overridable via config.
const DefaultFreshness = time.Hour

// Service implements the tracker operations on top of the store and engine
// interfaces. Safe for concurrent use.
type Service struct {
	history   store.HistoryStore
	stats     store.StatsStore
	engine    *stats.Engine
	bus       *event.Bus
	freshness time.Duration

	now func() time.Time

	// Per-(symbol,period) recompute guard: a burst of stale reads for one
	// key does exactly one recomputation.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Service. A non-positive freshness falls back to
// DefaultFreshness; a nil bus disables notifications.
func New(history store.HistoryStore, statsStore store.StatsStore, engine *stats.Engine, bus *event.Bus, freshness time.Duration) *Service {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &Service{
		history:   history,
		stats:     statsStore,
		engine:    engine,
		bus:       bus,
		freshness: freshness,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// SavePrice validates the raw inputs, persists a new sample stamped with the
// current time and publishes a price-saved event.
func (s *Service) SavePrice(ctx context.Context, symbol string, price float64) (model.PriceSample, error) {
	sym, err := model.NewSymbol(symbol)
	if err != nil {
		return model.PriceSample{}, err
	}
	p, err := model.NewPrice(price)
	if err != nil {
		return model.PriceSample{}, err
	}

	saved, err := s.history.SavePrice(ctx, model.NewPriceSample(sym, p, s.now()))
	if err != nil {
		return model.PriceSample{}, fmt.Errorf("save price: %w", err)
	}

	if s.bus != nil {
		s.bus.Publish(saved)
	}
	return saved, nil
}

// Prices returns all samples for a symbol, newest first.
func (s *Service) Prices(ctx context.Context, symbol string) ([]model.PriceSample, error) {
	sym, err := model.NewSymbol(symbol)
	if err != nil {
		return nil, err
	}
	return s.history.FindBySymbol(ctx, sym)
}

// GetStatistics returns the latest stats record for (symbol, period),
// reusing a cached record calculated within the freshness window and
// recomputing otherwise. A recompute always persists a new record; the
// stale one is never overwritten.
func (s *Service) GetStatistics(ctx context.Context, symbol, period string) (model.StatsRecord, error) {
	sym, err := model.NewSymbol(symbol)
	if err != nil {
		return model.StatsRecord{}, err
	}
	per, err := model.NewPeriod(period)
	if err != nil {
		return model.StatsRecord{}, err
	}

	lock := s.keyLock(sym, per)
	lock.Lock()
	defer lock.Unlock()

	latest, err := s.stats.FindLatest(ctx, sym, per)
	switch {
	case err == nil:
		if s.isRecent(latest.CalculatedAt) {
			return latest, nil
		}
	case !errors.Is(err, store.ErrNotFound):
		return model.StatsRecord{}, fmt.Errorf("find latest stats: %w", err)
	}

	return s.Recompute(ctx, sym, per)
}

// Recompute reads the period's lookback window (inclusive on both ends),
// runs the engine over it and persists the result. An empty window yields
// model.ErrInsufficientData.
func (s *Service) Recompute(ctx context.Context, symbol model.Symbol, period model.Period) (model.StatsRecord, error) {
	end := s.now()
	start := period.Start(end)

	samples, err := s.history.FindBySymbolInRange(ctx, symbol, start, end)
	if err != nil {
		return model.StatsRecord{}, fmt.Errorf("read price window: %w", err)
	}
	if len(samples) == 0 {
		return model.StatsRecord{}, fmt.Errorf("%w: %s over %s", model.ErrInsufficientData, symbol, period)
	}

	rec, err := s.engine.Compute(samples, symbol, period)
	if err != nil {
		return model.StatsRecord{}, fmt.Errorf("compute stats: %w", err)
	}

	saved, err := s.stats.SaveStats(ctx, rec)
	if err != nil {
		return model.StatsRecord{}, fmt.Errorf("save stats: %w", err)
	}
	return saved, nil
}

// StatsHistory returns every retained stats record for (symbol, period),
// newest calculation first.
func (s *Service) StatsHistory(ctx context.Context, symbol, period string) ([]model.StatsRecord, error) {
	sym, err := model.NewSymbol(symbol)
	if err != nil {
		return nil, err
	}
	per, err := model.NewPeriod(period)
	if err != nil {
		return nil, err
	}
	return s.stats.FindAll(ctx, sym, per)
}

func (s *Service) isRecent(calculatedAt time.Time) bool {
	return calculatedAt.After(s.now().Add(-s.freshness))
}

func (s *Service) keyLock(symbol model.Symbol, period model.Period) *sync.Mutex {
	key := symbol.String() + "/" + period.String()

	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
