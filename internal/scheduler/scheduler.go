package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"CoinSentinel/internal/model"
	"CoinSentinel/internal/quote"
)

// Asset is one tracked (external quote id, symbol) pair.
type Asset struct {
	CoinID string
	Symbol string
}

// PriceSaver persists one validated price observation.
type PriceSaver interface {
	SavePrice(ctx context.Context, symbol string, price float64) (model.PriceSample, error)
}

// Scheduler runs the ingestion tick on a fixed interval. Ticks never
// overlap: a tick still running when the next fires makes the new one skip.
type Scheduler struct {
	cron       *cron.Cron
	source     quote.Source
	saver      PriceSaver
	assets     []Asset
	vsCurrency string
	ctx        context.Context
}

// New creates a Scheduler polling the given assets against one quote
// currency.
func New(ctx context.Context, source quote.Source, saver PriceSaver, assets []Asset, vsCurrency string) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		source:     source,
		saver:      saver,
		assets:     assets,
		vsCurrency: vsCurrency,
		ctx:        ctx,
	}
}

// Register adds the ingest tick under the given cron spec, e.g. "@every 5m".
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("register ingest tick: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one ingest tick immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.tick()
}

// tick fetches and persists the current price of every tracked asset. One
// asset's failure never aborts the tick; the remaining assets still run.
func (s *Scheduler) tick() {
	log.Println("[INFO] fetching prices for tracked assets")

	for _, asset := range s.assets {
		price, err := s.source.GetPrice(s.ctx, asset.CoinID, s.vsCurrency)
		if err != nil {
			log.Printf("[ERROR] fetch %s price: %v", asset.Symbol, err)
			continue
		}
		if _, err := s.saver.SavePrice(s.ctx, asset.Symbol, price); err != nil {
			log.Printf("[ERROR] save %s price: %v", asset.Symbol, err)
			continue
		}
		log.Printf("[INFO] %s price recorded: %v %s", asset.Symbol, price, s.vsCurrency)
	}
}
