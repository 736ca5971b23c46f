package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickgao/options-data/internal/feed"
	"github.com/rickgao/options-data/internal/model"
)

// AssetSource resolves a symbol to its tracked asset.
type AssetSource interface {
	Get(symbol string) (model.Asset, bool)
}

// PriceHandler receives decoded spot samples.
type PriceHandler interface {
	HandlePrice(sample model.PriceSample)
}

// PriceHandlerFunc is a function adapter for PriceHandler.
type PriceHandlerFunc func(model.PriceSample)

func (f PriceHandlerFunc) HandlePrice(s model.PriceSample) {
	f(s)
}

// Symbol pairs a ticker symbol with its Pyth feed id.
type Symbol struct {
	Symbol string
	FeedID string
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Poll interval (default: 2.5s)
	Concurrency int           // Max concurrent requests (default: 8)
	Timeout     time.Duration // Per-request timeout (default: 5s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    2500 * time.Millisecond,
		Concurrency: 8,
		Timeout:     5 * time.Second,
	}
}

// Poller periodically fetches spot prices for all configured symbols.
type Poller struct {
	cfg     Config
	client  *feed.Client
	symbols []Symbol
	assets  AssetSource
	handler PriceHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, client *feed.Client, symbols []Symbol, assets AssetSource, handler PriceHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		symbols: symbols,
		assets:  assets,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("price poller started",
		"interval", p.cfg.Interval,
		"symbols", len(p.symbols),
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("price poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll fetches all symbols concurrently under a semaphore.
func (p *Poller) pollAll() {
	start := time.Now()

	if len(p.symbols) == 0 {
		p.logger.Debug("no symbols to poll")
		return
	}

	sem := make(chan struct{}, p.cfg.Concurrency)
	var wg sync.WaitGroup
	var fetched, errors atomic.Int64

	for _, sym := range p.symbols {
		wg.Add(1)
		go func(sym Symbol) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-p.ctx.Done():
				return
			}

			if err := p.pollSymbol(sym); err != nil {
				p.logger.Warn("failed to poll symbol",
					"symbol", sym.Symbol,
					"err", err,
				)
				errors.Add(1)
				return
			}

			fetched.Add(1)
		}(sym)
	}

	wg.Wait()

	p.logger.Debug("poll cycle complete",
		"symbols", len(p.symbols),
		"fetched", fetched.Load(),
		"errors", errors.Load(),
		"duration", time.Since(start),
	)
}

// pollSymbol fetches and handles a single symbol's latest price.
func (p *Poller) pollSymbol(sym Symbol) error {
	asset, ok := p.assets.Get(sym.Symbol)
	if !ok {
		return fmt.Errorf("symbol %s not in asset registry", sym.Symbol)
	}

	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	update, err := p.client.LatestPrice(ctx, sym.FeedID)
	if err != nil {
		return err
	}

	if p.handler != nil {
		p.handler.HandlePrice(model.PriceSample{
			CryptoID:  asset.ID,
			Symbol:    sym.Symbol,
			Timestamp: update.PublishTime,
			Price:     update.Price,
		})
	}

	return nil
}
