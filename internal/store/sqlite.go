package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"CoinSentinel/internal/model"
)

// SQLiteStore backs both stores with a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so API reads don't block scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_history (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol    TEXT NOT NULL,
			price     REAL NOT NULL,
			timestamp INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_symbol_ts ON price_history(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS price_stats (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol        TEXT NOT NULL,
			period        TEXT NOT NULL,
			average       REAL NOT NULL,
			volatility    REAL NOT NULL,
			trend         TEXT NOT NULL,
			calculated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stats_key_ts ON price_stats(symbol, period, calculated_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) SavePrice(ctx context.Context, sample model.PriceSample) (model.PriceSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO price_history (symbol, price, timestamp) VALUES (?,?,?)`,
		sample.Symbol.String(), sample.Price.Value(), sample.Timestamp.UnixNano(),
	)
	if err != nil {
		return model.PriceSample{}, fmt.Errorf("insert price: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.PriceSample{}, fmt.Errorf("price id: %w", err)
	}
	sample.ID = id
	return sample, nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, id int64) (model.PriceSample, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, symbol, price, timestamp FROM price_history WHERE id = ?`, id)
	return scanSample(row)
}

func (s *SQLiteStore) FindBySymbol(ctx context.Context, symbol model.Symbol) ([]model.PriceSample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, price, timestamp FROM price_history
		 WHERE symbol = ? ORDER BY timestamp DESC`, symbol.String())
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()
	return scanSamples(rows)
}

func (s *SQLiteStore) FindBySymbolInRange(ctx context.Context, symbol model.Symbol, start, end time.Time) ([]model.PriceSample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, price, timestamp FROM price_history
		 WHERE symbol = ? AND timestamp >= ? AND timestamp <= ?
		 ORDER BY timestamp ASC`,
		symbol.String(), start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("query price range: %w", err)
	}
	defer rows.Close()
	return scanSamples(rows)
}

func (s *SQLiteStore) SaveStats(ctx context.Context, rec model.StatsRecord) (model.StatsRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO price_stats (symbol, period, average, volatility, trend, calculated_at)
		 VALUES (?,?,?,?,?,?)`,
		rec.Symbol.String(), rec.Period.String(), rec.Average, rec.Volatility,
		rec.Trend.String(), rec.CalculatedAt.UnixNano(),
	)
	if err != nil {
		return model.StatsRecord{}, fmt.Errorf("insert stats: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.StatsRecord{}, fmt.Errorf("stats id: %w", err)
	}
	rec.ID = id
	return rec, nil
}

func (s *SQLiteStore) FindLatest(ctx context.Context, symbol model.Symbol, period model.Period) (model.StatsRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, symbol, period, average, volatility, trend, calculated_at
		 FROM price_stats WHERE symbol = ? AND period = ?
		 ORDER BY calculated_at DESC LIMIT 1`,
		symbol.String(), period.String())
	return scanStats(row)
}

func (s *SQLiteStore) FindAll(ctx context.Context, symbol model.Symbol, period model.Period) ([]model.StatsRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, period, average, volatility, trend, calculated_at
		 FROM price_stats WHERE symbol = ? AND period = ?
		 ORDER BY calculated_at DESC`,
		symbol.String(), period.String())
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var out []model.StatsRecord
	for rows.Next() {
		rec, err := scanStats(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (model.PriceSample, error) {
	var (
		sample model.PriceSample
		symbol string
		price  float64
		tsNano int64
	)
	err := row.Scan(&sample.ID, &symbol, &price, &tsNano)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PriceSample{}, ErrNotFound
	}
	if err != nil {
		return model.PriceSample{}, fmt.Errorf("scan price: %w", err)
	}
	sample.Symbol = model.Symbol(symbol)
	sample.Price = model.Price(price)
	sample.Timestamp = time.Unix(0, tsNano)
	return sample, nil
}

func scanSamples(rows *sql.Rows) ([]model.PriceSample, error) {
	var out []model.PriceSample
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sample)
	}
	return out, rows.Err()
}

func scanStats(row rowScanner) (model.StatsRecord, error) {
	var (
		rec            model.StatsRecord
		symbol, period string
		trend          string
		calcNano       int64
	)
	err := row.Scan(&rec.ID, &symbol, &period, &rec.Average, &rec.Volatility, &trend, &calcNano)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StatsRecord{}, ErrNotFound
	}
	if err != nil {
		return model.StatsRecord{}, fmt.Errorf("scan stats: %w", err)
	}
	rec.Symbol = model.Symbol(symbol)
	rec.Period = model.Period(period)
	rec.Trend = model.Trend(trend)
	rec.CalculatedAt = time.Unix(0, calcNano)
	return rec, nil
}
