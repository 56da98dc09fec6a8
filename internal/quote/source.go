package quote

import "context"

// Source fetches current prices for external asset ids.
type Source interface {
	// GetPrice returns the current price of the asset identified by coinID
	// in the given quote currency. Any transport or data-shape failure is
	// reported as model.ErrQuoteUnavailable.
	GetPrice(ctx context.Context, coinID, vsCurrency string) (float64, error)
	Name() string
}
