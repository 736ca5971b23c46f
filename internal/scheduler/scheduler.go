package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rickgao/options-data/internal/engine"
	"github.com/rickgao/options-data/internal/metrics"
)

// Runner prices one symbol's instrument grid.
type Runner interface {
	Run(ctx context.Context, symbol string) (engine.RunResult, error)
}

// SymbolSource lists the symbols to price each cycle.
type SymbolSource interface {
	Symbols() []string
}

// Config holds scheduler configuration.
type Config struct {
	Interval time.Duration // Pricing cycle interval (default: 1s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Interval: time.Second}
}

// Scheduler runs the pricing engine on a fixed cadence.
type Scheduler struct {
	cfg       Config
	runner    Runner
	symbols   SymbolSource
	collector *metrics.Collector
	logger    *slog.Logger

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler. The collector may be nil.
func New(cfg Config, runner Runner, symbols SymbolSource, collector *metrics.Collector, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	// cron's @every fires on whole-second boundaries, so a sub-second
	// interval would not be honored. Clamp and say so.
	if cfg.Interval < time.Second {
		logger.Warn("pricing interval below 1s, clamping",
			"configured", cfg.Interval,
			"effective", time.Second,
		)
		cfg.Interval = time.Second
	}
	return &Scheduler{
		cfg:       cfg,
		runner:    runner,
		symbols:   symbols,
		collector: collector,
		logger:    logger,
	}
}

// Start registers the cron job and begins firing cycles.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	// Overlapping cycles are skipped, not queued.
	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	spec := fmt.Sprintf("@every %s", s.cfg.Interval)
	if _, err := s.cron.AddFunc(spec, s.cycle); err != nil {
		return fmt.Errorf("register pricing job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("pricing scheduler started", "interval", s.cfg.Interval)
	return nil
}

// Stop halts the cron and waits for an in-flight cycle to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron == nil {
		return nil
	}

	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("pricing scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cycle prices every tracked symbol once.
func (s *Scheduler) cycle() {
	for _, symbol := range s.symbols.Symbols() {
		if s.ctx.Err() != nil {
			return
		}
		s.runSymbol(symbol)
	}
}

func (s *Scheduler) runSymbol(symbol string) {
	result, err := s.runner.Run(s.ctx, symbol)
	if err != nil {
		if s.ctx.Err() != nil {
			return
		}
		s.logger.Error("pricing run failed", "symbol", symbol, "error", err)
		if s.collector != nil {
			s.collector.ObserveRun(symbol, "error", 0)
		}
		return
	}

	if s.collector != nil {
		s.collector.ObserveRun(symbol, "ok", result.Duration)
		s.collector.AddQuotesWritten(symbol, result.Priced)
		s.collector.AddNonConverged(result.NonConverged)
	}
}
