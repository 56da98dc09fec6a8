package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"CoinSentinel/internal/model"
)

// MemoryStore is an in-memory adapter for both stores, used in tests and
// as a fallback when no database is configured.
type MemoryStore struct {
	mu           sync.RWMutex
	samples      []model.PriceSample
	stats        []model.StatsRecord
	nextSampleID int64
	nextStatsID  int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextSampleID: 1, nextStatsID: 1}
}

func (m *MemoryStore) SavePrice(_ context.Context, sample model.PriceSample) (model.PriceSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sample.ID = m.nextSampleID
	m.nextSampleID++
	m.samples = append(m.samples, sample)
	return sample, nil
}

func (m *MemoryStore) FindByID(_ context.Context, id int64) (model.PriceSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.samples {
		if s.ID == id {
			return s, nil
		}
	}
	return model.PriceSample{}, ErrNotFound
}

func (m *MemoryStore) FindBySymbol(_ context.Context, symbol model.Symbol) ([]model.PriceSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.PriceSample
	for _, s := range m.samples {
		if s.Symbol == symbol {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (m *MemoryStore) FindBySymbolInRange(_ context.Context, symbol model.Symbol, start, end time.Time) ([]model.PriceSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.PriceSample
	for _, s := range m.samples {
		if s.Symbol != symbol {
			continue
		}
		if s.Timestamp.Before(start) || s.Timestamp.After(end) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (m *MemoryStore) SaveStats(_ context.Context, rec model.StatsRecord) (model.StatsRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = m.nextStatsID
	m.nextStatsID++
	m.stats = append(m.stats, rec)
	return rec, nil
}

func (m *MemoryStore) FindLatest(_ context.Context, symbol model.Symbol, period model.Period) (model.StatsRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest model.StatsRecord
	found := false
	for _, r := range m.stats {
		if r.Symbol != symbol || r.Period != period {
			continue
		}
		if !found || r.CalculatedAt.After(latest.CalculatedAt) {
			latest = r
			found = true
		}
	}
	if !found {
		return model.StatsRecord{}, ErrNotFound
	}
	return latest, nil
}

func (m *MemoryStore) FindAll(_ context.Context, symbol model.Symbol, period model.Period) ([]model.StatsRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.StatsRecord
	for _, r := range m.stats {
		if r.Symbol == symbol && r.Period == period {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CalculatedAt.After(out[j].CalculatedAt)
	})
	return out, nil
}

// StatsCount reports how many stats records are stored. Test helper.
func (m *MemoryStore) StatsCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stats)
}
