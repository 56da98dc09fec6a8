package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"CoinSentinel/internal/model"
)

// PostgresStore backs both stores with PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects, pings and runs migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("[INFO] postgres store connected")
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_history (
			id        BIGSERIAL PRIMARY KEY,
			symbol    TEXT NOT NULL,
			price     DOUBLE PRECISION NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_symbol_ts ON price_history(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS price_stats (
			id            BIGSERIAL PRIMARY KEY,
			symbol        TEXT NOT NULL,
			period        TEXT NOT NULL,
			average       DOUBLE PRECISION NOT NULL,
			volatility    DOUBLE PRECISION NOT NULL,
			trend         TEXT NOT NULL,
			calculated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stats_key_ts ON price_stats(symbol, period, calculated_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *PostgresStore) SavePrice(ctx context.Context, sample model.PriceSample) (model.PriceSample, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO price_history (symbol, price, timestamp)
		 VALUES ($1, $2, $3) RETURNING id`,
		sample.Symbol.String(), sample.Price.Value(), sample.Timestamp,
	).Scan(&sample.ID)
	if err != nil {
		return model.PriceSample{}, fmt.Errorf("insert price: %w", err)
	}
	return sample, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (model.PriceSample, error) {
	var sample model.PriceSample
	err := s.db.GetContext(ctx, &sample,
		`SELECT id, symbol, price, timestamp FROM price_history WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PriceSample{}, ErrNotFound
	}
	if err != nil {
		return model.PriceSample{}, fmt.Errorf("get price: %w", err)
	}
	return sample, nil
}

func (s *PostgresStore) FindBySymbol(ctx context.Context, symbol model.Symbol) ([]model.PriceSample, error) {
	var out []model.PriceSample
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, symbol, price, timestamp FROM price_history
		 WHERE symbol = $1 ORDER BY timestamp DESC`, symbol.String())
	if err != nil {
		return nil, fmt.Errorf("select prices: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindBySymbolInRange(ctx context.Context, symbol model.Symbol, start, end time.Time) ([]model.PriceSample, error) {
	var out []model.PriceSample
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, symbol, price, timestamp FROM price_history
		 WHERE symbol = $1 AND timestamp >= $2 AND timestamp <= $3
		 ORDER BY timestamp ASC`,
		symbol.String(), start, end)
	if err != nil {
		return nil, fmt.Errorf("select price range: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SaveStats(ctx context.Context, rec model.StatsRecord) (model.StatsRecord, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO price_stats (symbol, period, average, volatility, trend, calculated_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		rec.Symbol.String(), rec.Period.String(), rec.Average, rec.Volatility,
		rec.Trend.String(), rec.CalculatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return model.StatsRecord{}, fmt.Errorf("insert stats: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) FindLatest(ctx context.Context, symbol model.Symbol, period model.Period) (model.StatsRecord, error) {
	var rec model.StatsRecord
	err := s.db.GetContext(ctx, &rec,
		`SELECT id, symbol, period, average, volatility, trend, calculated_at
		 FROM price_stats WHERE symbol = $1 AND period = $2
		 ORDER BY calculated_at DESC LIMIT 1`,
		symbol.String(), period.String())
	if errors.Is(err, sql.ErrNoRows) {
		return model.StatsRecord{}, ErrNotFound
	}
	if err != nil {
		return model.StatsRecord{}, fmt.Errorf("get latest stats: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) FindAll(ctx context.Context, symbol model.Symbol, period model.Period) ([]model.StatsRecord, error) {
	var out []model.StatsRecord
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, symbol, period, average, volatility, trend, calculated_at
		 FROM price_stats WHERE symbol = $1 AND period = $2
		 ORDER BY calculated_at DESC`,
		symbol.String(), period.String())
	if err != nil {
		return nil, fmt.Errorf("select stats: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	log.Println("[INFO] closing postgres store")
	return s.db.Close()
}
