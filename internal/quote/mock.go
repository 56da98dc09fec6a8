package quote

import (
	"context"
	"fmt"

	"CoinSentinel/internal/model"
)

// MockSource returns controllable fixed prices for development and testing.
type MockSource struct {
	Prices map[string]float64 // coinID -> price
	Errs   map[string]error   // coinID -> forced error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) GetPrice(_ context.Context, coinID, _ string) (float64, error) {
	if err, ok := m.Errs[coinID]; ok {
		return 0, err
	}
	price, ok := m.Prices[coinID]
	if !ok {
		return 0, fmt.Errorf("%w: no mock quote for %s", model.ErrQuoteUnavailable, coinID)
	}
	return price, nil
}
