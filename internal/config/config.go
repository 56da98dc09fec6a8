package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// TrackedAsset is one (coin_id, symbol) pair the scheduler polls.
type TrackedAsset struct {
	CoinID string `yaml:"coin_id"`
	Symbol string `yaml:"symbol"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr  string `yaml:"addr"`
		Debug bool   `yaml:"debug"`
	} `yaml:"server"`
	Database struct {
		Driver      string `yaml:"driver"` // "sqlite" or "postgres"
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"` // empty disables the stats cache
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Fetch struct {
		CronSpec   string         `yaml:"cron_spec"`
		VsCurrency string         `yaml:"vs_currency"`
		BaseURL    string         `yaml:"base_url"`
		Assets     []TrackedAsset `yaml:"assets"`
	} `yaml:"fetch"`
	Policy struct {
		FreshnessMinutes int     `yaml:"freshness_minutes"`
		TrendThreshold   float64 `yaml:"trend_threshold"`
	} `yaml:"policy"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("FETCH_CRON"); v != "" {
		cfg.Fetch.CronSpec = v
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.Fetch.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("FRESHNESS_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Policy.FreshnessMinutes = n
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/coinsentinel.db"
	}
	if cfg.Fetch.CronSpec == "" {
		cfg.Fetch.CronSpec = "@every 5m"
	}
	if cfg.Fetch.VsCurrency == "" {
		cfg.Fetch.VsCurrency = "usd"
	}
	if len(cfg.Fetch.Assets) == 0 {
		cfg.Fetch.Assets = []TrackedAsset{
			{CoinID: "bitcoin", Symbol: "BTC"},
			{CoinID: "ethereum", Symbol: "ETH"},
		}
	}
	if cfg.Policy.FreshnessMinutes == 0 {
		cfg.Policy.FreshnessMinutes = 60
	}
	if cfg.Policy.TrendThreshold == 0 {
		cfg.Policy.TrendThreshold = 5
	}

	return cfg, nil
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.PostgresDSN == "" {
		return fmt.Errorf("database.postgres_dsn is required for the postgres driver")
	}
	if len(c.Fetch.Assets) == 0 {
		return fmt.Errorf("fetch.assets must not be empty")
	}
	for _, a := range c.Fetch.Assets {
		if a.CoinID == "" || a.Symbol == "" {
			return fmt.Errorf("fetch.assets entries need both coin_id and symbol")
		}
	}
	if c.Policy.FreshnessMinutes < 0 {
		return fmt.Errorf("policy.freshness_minutes must not be negative")
	}
	return nil
}
