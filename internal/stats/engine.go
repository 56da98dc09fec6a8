package stats

import (
	"math"
	"sort"
	"time"

	"CoinSentinel/internal/model"
)

// DefaultTrendThreshold is the percent change beyond which a window is
// classified UP or DOWN instead of STABLE. Placeholder policy value,
// overridable via config.
const DefaultTrendThreshold = 5.0

// Engine turns a window of price samples into a statistics record.
// It has no dependencies and no side effects.
type Engine struct {
	trendThreshold float64
}

// NewEngine creates an Engine. A non-positive threshold falls back to
// DefaultTrendThreshold.
func NewEngine(trendThreshold float64) *Engine {
	if trendThreshold <= 0 {
		trendThreshold = DefaultTrendThreshold
	}
	return &Engine{trendThreshold: trendThreshold}
}

// Compute calculates average, volatility and trend over the given samples.
// The caller must pass at least one sample; an empty slice is a programmer
// error and yields model.ErrEmptyInput. The input slice is never mutated.
func (e *Engine) Compute(samples []model.PriceSample, symbol model.Symbol, period model.Period) (model.StatsRecord, error) {
	if len(samples) == 0 {
		return model.StatsRecord{}, model.ErrEmptyInput
	}

	prices := make([]float64, len(samples))
	for i, s := range samples {
		prices[i] = s.Price.Value()
	}

	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	avg := sum / float64(len(prices))

	// Population standard deviation; fewer than 2 samples means no
	// variability is observable, so volatility is exactly 0.
	volatility := 0.0
	if len(prices) >= 2 {
		sqSum := 0.0
		for _, p := range prices {
			d := p - avg
			sqSum += d * d
		}
		volatility = math.Sqrt(sqSum / float64(len(prices)))
	}

	trend := e.determineTrend(samples)

	return model.NewStatsRecord(symbol, period, avg, volatility, trend, time.Now())
}

func (e *Engine) determineTrend(samples []model.PriceSample) model.Trend {
	if len(samples) < 2 {
		return model.TrendStable
	}

	// Sort a copy so the caller's slice keeps its order. Stable sort keeps
	// equal-timestamp samples deterministic for a given input ordering.
	sorted := append([]model.PriceSample(nil), samples...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	first := sorted[0].Price.Value()
	last := sorted[len(sorted)-1].Price.Value()

	// Guard the division below.
	if first == 0 {
		switch {
		case last > 0:
			return model.TrendUp
		case last < 0:
			return model.TrendDown
		default:
			return model.TrendStable
		}
	}

	percentChange := (last - first) / first * 100
	switch {
	case percentChange > e.trendThreshold:
		return model.TrendUp
	case percentChange < -e.trendThreshold:
		return model.TrendDown
	default:
		return model.TrendStable
	}
}
