package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,30}$`)

// Symbol identifies a tracked asset, e.g. "BTC". Always stored uppercase.
type Symbol string

// NewSymbol validates and normalizes a raw symbol string.
func NewSymbol(raw string) (Symbol, error) {
	if !symbolPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: invalid symbol %q (1-30 alphanumeric characters)", ErrValidation, raw)
	}
	return Symbol(strings.ToUpper(raw)), nil
}

func (s Symbol) String() string { return string(s) }

// Price is a non-negative asset price in the quote currency.
type Price float64

// NewPrice rejects negative values.
func NewPrice(v float64) (Price, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: invalid price %v (must be >= 0)", ErrValidation, v)
	}
	return Price(v), nil
}

func (p Price) Value() float64 { return float64(p) }

// Period is the lookback window used for statistics.
type Period string

const (
	Period1d  Period = "1d"
	Period7d  Period = "7d"
	Period30d Period = "30d"
)

// NewPeriod validates a raw period string against the closed set.
func NewPeriod(raw string) (Period, error) {
	switch Period(raw) {
	case Period1d, Period7d, Period30d:
		return Period(raw), nil
	}
	return "", fmt.Errorf("%w: invalid period %q (want 1d, 7d or 30d)", ErrValidation, raw)
}

func (p Period) String() string { return string(p) }

// Days returns the lookback length in calendar days.
func (p Period) Days() int {
	switch p {
	case Period7d:
		return 7
	case Period30d:
		return 30
	default:
		return 1
	}
}

// Start returns the inclusive lower bound of the lookback window ending at end.
func (p Period) Start(end time.Time) time.Time {
	return end.AddDate(0, 0, -p.Days())
}

// Trend classifies price movement over a window.
type Trend string

const (
	TrendUp     Trend = "UP"
	TrendDown   Trend = "DOWN"
	TrendStable Trend = "STABLE"
)

// NewTrend validates a raw trend string against the closed set.
func NewTrend(raw string) (Trend, error) {
	switch Trend(raw) {
	case TrendUp, TrendDown, TrendStable:
		return Trend(raw), nil
	}
	return "", fmt.Errorf("%w: invalid trend %q (want UP, DOWN or STABLE)", ErrValidation, raw)
}

func (t Trend) String() string { return string(t) }
