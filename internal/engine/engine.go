package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/options-data/internal/heston"
	"github.com/rickgao/options-data/internal/model"
)

// HistoryProvider supplies recent spot samples for a symbol, newest first,
// plus the asset identifier the quotes should reference.
type HistoryProvider interface {
	SpotHistory(ctx context.Context, symbol string, limit int) ([]model.SpotSample, int64, error)
}

// QuoteSink persists a batch of quotes. Each quote is an independent upsert,
// so the sink may apply them in any order.
type QuoteSink interface {
	UpsertQuotes(ctx context.Context, quotes []model.Quote) error
}

// Config holds the pricing run parameters. All values are externally
// configured; only v0 is derived per run.
type Config struct {
	Spread       float64            // Bid/ask spread fraction (default: 0.02)
	RiskFreeRate float64            // r (default: 0.01)
	Kappa        float64            // Variance mean-reversion speed (default: 0.5)
	Theta        float64            // Long-run variance (default: 0.04)
	Sigma        float64            // Vol of variance (default: 0.8, must be non-zero)
	Rho          float64            // Spot/variance correlation (default: -0.7)
	PctRange     float64            // Strike grid half-width (default: 0.10)
	StrikeSteps  int                // Steps per side (default: 5)
	ExpiryDays   []int              // Expiry buckets in days (default: 7, 30)
	OptionTypes  []model.OptionType // Types to generate (default: call, put)
	HistoryLimit int                // Spot samples per run (default: 50)
	Concurrency  int                // Parallel pricing workers (default: 8)

	Quadrature heston.QuadratureConfig
}

// DefaultConfig returns the standard run parameters.
func DefaultConfig() Config {
	return Config{
		Spread:       0.02,
		RiskFreeRate: 0.01,
		Kappa:        0.5,
		Theta:        0.04,
		Sigma:        0.8,
		Rho:          -0.7,
		PctRange:     0.10,
		StrikeSteps:  5,
		ExpiryDays:   []int{7, 30},
		OptionTypes:  []model.OptionType{model.OptionTypeCall, model.OptionTypePut},
		HistoryLimit: 50,
		Concurrency:  8,
		Quadrature:   heston.DefaultQuadrature(),
	}
}

// Engine prices the synthetic instrument grid for one symbol per run. It holds
// no mutable state between runs; all inputs are read fresh, so overlapping
// invocations are safe.
type Engine struct {
	cfg     Config
	history HistoryProvider
	sink    QuoteSink
	logger  *slog.Logger
}

// New creates an Engine with explicit collaborators.
func New(cfg Config, history HistoryProvider, sink QuoteSink, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Engine{
		cfg:     cfg,
		history: history,
		sink:    sink,
		logger:  logger,
	}
}

// RunResult summarizes one engine run.
type RunResult struct {
	RunID        uuid.UUID
	Symbol       string
	Spot         float64
	V0           float64
	Instruments  int
	Priced       int
	Failed       int
	NonConverged int
	Duration     time.Duration
}

// Run prices all instruments for one symbol and persists the quote batch.
func (e *Engine) Run(ctx context.Context, symbol string) (RunResult, error) {
	start := time.Now()
	runID := uuid.New()

	samples, cryptoID, err := e.history.SpotHistory(ctx, symbol, e.cfg.HistoryLimit)
	if err != nil {
		return RunResult{}, fmt.Errorf("fetch spot history: %w", err)
	}

	v0, err := EstimateVariance(samples)
	if err != nil {
		return RunResult{}, err
	}

	spot := latestClose(samples)
	params := model.ModelParameters{
		Spot:  spot,
		Rate:  e.cfg.RiskFreeRate,
		Kappa: e.cfg.Kappa,
		Theta: e.cfg.Theta,
		Sigma: e.cfg.Sigma,
		Rho:   e.cfg.Rho,
		V0:    v0,
	}

	strikes := GenerateStrikes(spot, e.cfg.PctRange, e.cfg.StrikeSteps)
	instruments := BuildInstruments(symbol, strikes, e.cfg.ExpiryDays, e.cfg.OptionTypes)

	now := time.Now().UTC()
	quotes := make([]*model.Quote, len(instruments))
	var failed, nonConverged atomic.Int64

	// Instruments share no mutable state; fan pricing out across workers and
	// collect into the slot matching the builder's deterministic order.
	var g errgroup.Group
	g.SetLimit(e.cfg.Concurrency)

	for idx, inst := range instruments {
		idx, inst := idx, inst
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			maturity := float64(inst.ExpiryDays) / 365
			res, err := heston.Price(params, inst.Strike.InexactFloat64(), maturity, inst.Type, e.cfg.Quadrature)
			if err != nil {
				// Fatal for this instrument only; the rest of the batch proceeds.
				failed.Add(1)
				e.logger.Warn("instrument pricing failed",
					"run_id", runID,
					"instrument", inst.Name(),
					"error", err,
				)
				return nil
			}
			if !res.Converged {
				nonConverged.Add(1)
				e.logger.Warn("quadrature tolerance not met",
					"run_id", runID,
					"instrument", inst.Name(),
					"err_estimate", res.ErrEstimate,
				)
			}

			mid := res.Price
			quotes[idx] = &model.Quote{
				InstrumentName: inst.Name(),
				CryptoID:       cryptoID,
				Mid:            mid,
				Bid:            mid * (1 - e.cfg.Spread/2),
				Ask:            mid * (1 + e.cfg.Spread/2),
				Strike:         inst.Strike,
				ExpirationTS:   now.AddDate(0, 0, inst.ExpiryDays).Unix(),
				Type:           inst.Type,
				ComputedAt:     now,
			}
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return RunResult{}, err
	}

	batch := make([]model.Quote, 0, len(instruments))
	for _, q := range quotes {
		if q != nil {
			batch = append(batch, *q)
		}
	}

	if err := e.sink.UpsertQuotes(ctx, batch); err != nil {
		return RunResult{}, fmt.Errorf("persist quotes: %w", err)
	}

	result := RunResult{
		RunID:        runID,
		Symbol:       symbol,
		Spot:         spot,
		V0:           v0,
		Instruments:  len(instruments),
		Priced:       len(batch),
		Failed:       int(failed.Load()),
		NonConverged: int(nonConverged.Load()),
		Duration:     time.Since(start),
	}

	e.logger.Info("pricing run complete",
		"run_id", runID,
		"symbol", symbol,
		"spot", spot,
		"v0", v0,
		"instruments", result.Instruments,
		"priced", result.Priced,
		"failed", result.Failed,
		"duration", result.Duration,
	)

	return result, nil
}

// latestClose picks the most recent sample's close.
func latestClose(samples []model.SpotSample) float64 {
	latest := samples[0]
	for _, s := range samples[1:] {
		if s.Timestamp.After(latest.Timestamp) {
			latest = s
		}
	}
	return latest.Close
}
