package store

import (
	"context"
	"errors"
	"time"

	"CoinSentinel/internal/model"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("record not found")

// HistoryStore persists price samples. The core depends only on this
// interface; backing adapters live in this package.
type HistoryStore interface {
	// SavePrice persists the sample and returns it with identity assigned.
	SavePrice(ctx context.Context, sample model.PriceSample) (model.PriceSample, error)
	// FindByID returns a single sample or ErrNotFound.
	FindByID(ctx context.Context, id int64) (model.PriceSample, error)
	// FindBySymbol returns all samples for a symbol, newest first.
	FindBySymbol(ctx context.Context, symbol model.Symbol) ([]model.PriceSample, error)
	// FindBySymbolInRange returns samples with start <= timestamp <= end,
	// oldest first.
	FindBySymbolInRange(ctx context.Context, symbol model.Symbol, start, end time.Time) ([]model.PriceSample, error)
}

// StatsStore persists computed statistics records.
type StatsStore interface {
	// SaveStats persists the record and returns it with identity assigned.
	SaveStats(ctx context.Context, rec model.StatsRecord) (model.StatsRecord, error)
	// FindLatest returns the most recently calculated record for the pair,
	// or ErrNotFound.
	FindLatest(ctx context.Context, symbol model.Symbol, period model.Period) (model.StatsRecord, error)
	// FindAll returns every retained record for the pair, newest
	// calculation first.
	FindAll(ctx context.Context, symbol model.Symbol, period model.Period) ([]model.StatsRecord, error)
}
