package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"CoinSentinel/internal/model"
)

func TestCoinGeckoGetPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("ids") != "bitcoin" || r.URL.Query().Get("vs_currencies") != "usd" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"bitcoin":{"usd":60000}}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoSource(srv.URL, "")
	price, err := c.GetPrice(context.Background(), "bitcoin", "usd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 60000 {
		t.Errorf("price = %v, want 60000", price)
	}
}

func TestCoinGeckoGetPrice_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "throttled", http.StatusTooManyRequests)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"bitcoin":`))
		}},
		{"missing coin", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}},
		{"missing currency", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"bitcoin":{"eur":55000}}`))
		}},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(tt.handler)
		c := NewCoinGeckoSource(srv.URL, "")
		_, err := c.GetPrice(context.Background(), "bitcoin", "usd")
		srv.Close()
		if !errors.Is(err, model.ErrQuoteUnavailable) {
			t.Errorf("%s: expected ErrQuoteUnavailable, got %v", tt.name, err)
		}
	}
}
