package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewSymbol(t *testing.T) {
	tests := []struct {
		in      string
		want    Symbol
		wantErr bool
	}{
		{"btc", "BTC", false},
		{"BTC", "BTC", false},
		{"eth2", "ETH2", false},
		{"btc usd", "", true},
		{"", "", true},
		{"btc-usd", "", true},
		{strings.Repeat("A", 30), Symbol(strings.Repeat("A", 30)), false},
		{strings.Repeat("A", 31), "", true},
	}
	for _, tt := range tests {
		got, err := NewSymbol(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewSymbol(%q): expected error", tt.in)
			} else if !errors.Is(err, ErrValidation) {
				t.Errorf("NewSymbol(%q): error %v is not ErrValidation", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewSymbol(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NewSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewPrice(t *testing.T) {
	if _, err := NewPrice(-0.01); !errors.Is(err, ErrValidation) {
		t.Errorf("negative price: expected ErrValidation, got %v", err)
	}
	for _, v := range []float64{0, 0.5, 60000} {
		p, err := NewPrice(v)
		if err != nil {
			t.Errorf("NewPrice(%v): unexpected error %v", v, err)
		}
		if p.Value() != v {
			t.Errorf("NewPrice(%v).Value() = %v", v, p.Value())
		}
	}
}

func TestNewPeriod(t *testing.T) {
	for _, in := range []string{"1d", "7d", "30d"} {
		if _, err := NewPeriod(in); err != nil {
			t.Errorf("NewPeriod(%q): unexpected error %v", in, err)
		}
	}
	for _, in := range []string{"", "2d", "1D", "1h", "90d"} {
		if _, err := NewPeriod(in); !errors.Is(err, ErrValidation) {
			t.Errorf("NewPeriod(%q): expected ErrValidation, got %v", in, err)
		}
	}
}

func TestPeriodDays(t *testing.T) {
	tests := []struct {
		period Period
		days   int
	}{
		{Period1d, 1},
		{Period7d, 7},
		{Period30d, 30},
	}
	for _, tt := range tests {
		if got := tt.period.Days(); got != tt.days {
			t.Errorf("%s.Days() = %d, want %d", tt.period, got, tt.days)
		}
	}
}

func TestNewTrend(t *testing.T) {
	for _, in := range []string{"UP", "DOWN", "STABLE"} {
		if _, err := NewTrend(in); err != nil {
			t.Errorf("NewTrend(%q): unexpected error %v", in, err)
		}
	}
	for _, in := range []string{"", "up", "SIDEWAYS"} {
		if _, err := NewTrend(in); !errors.Is(err, ErrValidation) {
			t.Errorf("NewTrend(%q): expected ErrValidation, got %v", in, err)
		}
	}
}

func TestNewStatsRecord_Invariants(t *testing.T) {
	if _, err := NewStatsRecord("BTC", Period7d, -1, 0, TrendStable, time.Time{}); !errors.Is(err, ErrValidation) {
		t.Errorf("negative average: expected ErrValidation, got %v", err)
	}
	if _, err := NewStatsRecord("BTC", Period7d, 100, -1, TrendStable, time.Time{}); !errors.Is(err, ErrValidation) {
		t.Errorf("negative volatility: expected ErrValidation, got %v", err)
	}
	rec, err := NewStatsRecord("BTC", Period7d, 100, 2.5, TrendUp, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.CalculatedAt.IsZero() {
		t.Error("expected calculatedAt to default to now")
	}
}
