package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"CoinSentinel/internal/config"
	"CoinSentinel/internal/event"
	"CoinSentinel/internal/quote"
	"CoinSentinel/internal/scheduler"
	"CoinSentinel/internal/server"
	"CoinSentinel/internal/stats"
	"CoinSentinel/internal/store"
	"CoinSentinel/internal/tracker"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CoinSentinel starting...")

	// Load .env if present, then config
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init stores
	var (
		history    store.HistoryStore
		statsStore store.StatsStore
	)
	switch cfg.Database.Driver {
	case "postgres":
		pg, err := store.NewPostgresStore(ctx, cfg.Database.PostgresDSN)
		if err != nil {
			log.Fatalf("[FATAL] init postgres store: %v", err)
		}
		defer pg.Close()
		history, statsStore = pg, pg
	default:
		sq, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Fatalf("[FATAL] init sqlite store: %v", err)
		}
		defer sq.Close()
		history, statsStore = sq, sq
	}

	freshness := time.Duration(cfg.Policy.FreshnessMinutes) * time.Minute

	// Optional Redis read-through cache for latest stats
	if cfg.Redis.Addr != "" {
		cached, err := store.NewCachedStatsStore(ctx, statsStore,
			cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, freshness)
		if err != nil {
			log.Printf("[WARN] init redis cache failed, using bare store: %v", err)
		} else {
			defer cached.Close()
			statsStore = cached
		}
	}

	// Init event bus
	bus := event.NewBus()
	bus.Subscribe(event.LogSubscriber{})

	// Init service
	engine := stats.NewEngine(cfg.Policy.TrendThreshold)
	svc := tracker.New(history, statsStore, engine, bus, freshness)

	// Init quote source
	source := quote.NewCoinGeckoSource(cfg.Fetch.BaseURL, cfg.Proxy)
	log.Printf("[INFO] quote source: %s", source.Name())

	// Init scheduler
	assets := make([]scheduler.Asset, 0, len(cfg.Fetch.Assets))
	for _, a := range cfg.Fetch.Assets {
		assets = append(assets, scheduler.Asset{CoinID: a.CoinID, Symbol: a.Symbol})
	}
	sched := scheduler.New(ctx, source, svc, assets, cfg.Fetch.VsCurrency)
	if err := sched.Register(cfg.Fetch.CronSpec); err != nil {
		log.Fatalf("[FATAL] register ingest tick: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Init HTTP server
	srv := server.New(cfg.Server.Addr, svc, cfg.Database.Driver, cfg.Server.Debug)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Optional: ingest immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing ingest tick now")
		go sched.RunNow()
	}

	log.Println("[INFO] CoinSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] CoinSentinel stopped")
}
