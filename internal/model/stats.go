package model

import (
	"fmt"
	"time"
)

// StatsRecord is one computed statistics snapshot for a (symbol, period)
// pair. Average and volatility are invariant non-negative; construction
// fails otherwise. ID is zero until the stats store assigns identity.
type StatsRecord struct {
	ID           int64     `json:"id" db:"id"`
	Symbol       Symbol    `json:"symbol" db:"symbol"`
	Period       Period    `json:"period" db:"period"`
	Average      float64   `json:"average" db:"average"`
	Volatility   float64   `json:"volatility" db:"volatility"`
	Trend        Trend     `json:"trend" db:"trend"`
	CalculatedAt time.Time `json:"calculatedAt" db:"calculated_at"`
}

// NewStatsRecord builds an unpersisted record, enforcing the non-negativity
// invariants. A zero calculatedAt defaults to now.
func NewStatsRecord(symbol Symbol, period Period, average, volatility float64, trend Trend, calculatedAt time.Time) (StatsRecord, error) {
	if average < 0 {
		return StatsRecord{}, fmt.Errorf("%w: average %v must be >= 0", ErrValidation, average)
	}
	if volatility < 0 {
		return StatsRecord{}, fmt.Errorf("%w: volatility %v must be >= 0", ErrValidation, volatility)
	}
	if calculatedAt.IsZero() {
		calculatedAt = time.Now()
	}
	return StatsRecord{
		Symbol:       symbol,
		Period:       period,
		Average:      average,
		Volatility:   volatility,
		Trend:        trend,
		CalculatedAt: calculatedAt,
	}, nil
}
