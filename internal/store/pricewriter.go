package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/options-data/internal/model"
)

// WriterConfig controls price sample batching.
type WriterConfig struct {
	BatchSize     int
	FlushInterval time.Duration
	InputBuffer   int
}

// DefaultWriterConfig returns sensible batching defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     100,
		FlushInterval: 1 * time.Second,
		InputBuffer:   1024,
	}
}

// WriterMetrics tracks writer activity.
type WriterMetrics struct {
	Inserts int64
	Flushes int64
	Dropped int64
	Errors  int64
}

// PriceSink persists a batch of spot samples.
type PriceSink interface {
	UpsertPrices(ctx context.Context, samples []model.PriceSample) error
}

// PriceWriter buffers incoming spot samples and flushes them to the sink in
// batches, either when the batch fills or on a timer.
type PriceWriter struct {
	cfg    WriterConfig
	sink   PriceSink
	logger *slog.Logger

	input chan model.PriceSample

	batch       []model.PriceSample
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics WriterMetrics
}

// NewPriceWriter creates a PriceWriter over the given sink.
func NewPriceWriter(cfg WriterConfig, sink PriceSink, logger *slog.Logger) *PriceWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultWriterConfig().BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultWriterConfig().FlushInterval
	}
	if cfg.InputBuffer <= 0 {
		cfg.InputBuffer = DefaultWriterConfig().InputBuffer
	}
	return &PriceWriter{
		cfg:    cfg,
		sink:   sink,
		logger: logger,
		input:  make(chan model.PriceSample, cfg.InputBuffer),
		batch:  make([]model.PriceSample, 0, cfg.BatchSize),
	}
}

// Enqueue hands a sample to the writer without blocking. Samples are dropped
// when the input buffer is full.
func (w *PriceWriter) Enqueue(sample model.PriceSample) {
	select {
	case w.input <- sample:
	default:
		w.batchMu.Lock()
		w.metrics.Dropped++
		w.batchMu.Unlock()
		w.logger.Warn("price writer input full, dropping sample", "symbol", sample.Symbol)
	}
}

// Start begins consuming samples and writing to the sink.
func (w *PriceWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("price writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer.
func (w *PriceWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping price writer")

	if w.cancel != nil {
		w.cancel()
	}

	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("price writer stopped")
	case <-ctx.Done():
		w.logger.Warn("price writer stop timed out")
	}

	// Final flush uses the caller's context since w.ctx is already cancelled.
	w.flush(ctx)

	return nil
}

// Stats returns current metrics.
func (w *PriceWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

func (w *PriceWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case sample := <-w.input:
			w.handleSample(sample)
		}
	}
}

func (w *PriceWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush(w.ctx)
		}
	}
}

func (w *PriceWriter) handleSample(sample model.PriceSample) {
	w.batchMu.Lock()
	w.batch = append(w.batch, sample)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush(w.ctx)
	}
}

func (w *PriceWriter) flush(ctx context.Context) {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]model.PriceSample, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	if err := w.sink.UpsertPrices(ctx, batch); err != nil {
		w.logger.Error("price batch write failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch))
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed prices",
		"count", len(batch),
		"duration", time.Since(start),
	)
}
