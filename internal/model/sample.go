package model

import "time"

// PriceSample is one observed price for a symbol. ID is zero until the
// history store assigns identity on save; the sample is read-only afterward.
type PriceSample struct {
	ID        int64     `json:"id" db:"id"`
	Symbol    Symbol    `json:"symbol" db:"symbol"`
	Price     Price     `json:"price" db:"price"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// NewPriceSample builds an unpersisted sample. A zero ts defaults to now.
func NewPriceSample(symbol Symbol, price Price, ts time.Time) PriceSample {
	if ts.IsZero() {
		ts = time.Now()
	}
	return PriceSample{Symbol: symbol, Price: price, Timestamp: ts}
}
