package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/options-data/internal/asset"
	"github.com/rickgao/options-data/internal/config"
	"github.com/rickgao/options-data/internal/database"
	"github.com/rickgao/options-data/internal/engine"
	"github.com/rickgao/options-data/internal/feed"
	"github.com/rickgao/options-data/internal/heston"
	"github.com/rickgao/options-data/internal/metrics"
	"github.com/rickgao/options-data/internal/model"
	"github.com/rickgao/options-data/internal/poller"
	"github.com/rickgao/options-data/internal/relay"
	"github.com/rickgao/options-data/internal/scheduler"
	"github.com/rickgao/options-data/internal/server"
	"github.com/rickgao/options-data/internal/store"
	"github.com/rickgao/options-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/quoter.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting quoter",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"symbols", len(cfg.Feed.Symbols),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	st := store.New(pool, logger)

	// Load asset registry, creating rows for newly configured symbols
	registry := asset.NewRegistry(st, logger)
	symbols := make([]string, 0, len(cfg.Feed.Symbols))
	for _, s := range cfg.Feed.Symbols {
		symbols = append(symbols, s.Symbol)
	}
	if err := registry.Load(ctx, symbols); err != nil {
		logger.Error("failed to load asset registry", "error", err)
		os.Exit(1)
	}

	// Metrics
	collector, err := metrics.NewCollector()
	if err != nil {
		logger.Error("failed to build metrics collector", "error", err)
		os.Exit(1)
	}

	// Price feed client and writer
	feedClient := feed.NewClient(
		cfg.Feed.URL,
		feed.WithLogger(logger),
		feed.WithTimeout(cfg.Feed.Timeout),
		feed.WithRetries(cfg.Feed.MaxRetries, time.Second),
	)

	priceWriter := store.NewPriceWriter(store.DefaultWriterConfig(), st, logger)
	if err := priceWriter.Start(ctx); err != nil {
		logger.Error("failed to start price writer", "error", err)
		os.Exit(1)
	}

	// Spot price poller
	feedSymbols := make([]poller.Symbol, 0, len(cfg.Feed.Symbols))
	for _, s := range cfg.Feed.Symbols {
		feedSymbols = append(feedSymbols, poller.Symbol{Symbol: s.Symbol, FeedID: s.FeedID})
	}

	pricePoller := poller.New(
		poller.Config{
			Interval:    cfg.Poller.Interval,
			Concurrency: cfg.Poller.Concurrency,
			Timeout:     cfg.Poller.Timeout,
		},
		feedClient,
		feedSymbols,
		registry,
		poller.PriceHandlerFunc(func(s model.PriceSample) {
			collector.ObserveFetch(s.Symbol, "ok")
			priceWriter.Enqueue(s)
		}),
		logger,
	)
	if err := pricePoller.Start(ctx); err != nil {
		logger.Error("failed to start price poller", "error", err)
		os.Exit(1)
	}

	// Pricing engine and scheduler
	optionTypes := make([]model.OptionType, 0, len(cfg.Pricing.OptionTypes))
	for _, t := range cfg.Pricing.OptionTypes {
		optionTypes = append(optionTypes, model.OptionType(t))
	}

	eng := engine.New(
		engine.Config{
			Spread:       cfg.Pricing.Spread,
			RiskFreeRate: cfg.Pricing.RiskFreeRate,
			Kappa:        cfg.Pricing.Kappa,
			Theta:        cfg.Pricing.Theta,
			Sigma:        cfg.Pricing.Sigma,
			Rho:          cfg.Pricing.Rho,
			PctRange:     cfg.Pricing.PctRange,
			StrikeSteps:  cfg.Pricing.StrikeSteps,
			ExpiryDays:   cfg.Pricing.ExpiryDays,
			OptionTypes:  optionTypes,
			HistoryLimit: cfg.Pricing.HistoryLimit,
			Concurrency:  cfg.Pricing.Concurrency,
			Quadrature: heston.QuadratureConfig{
				PhiMax:       cfg.Pricing.PhiMax,
				AbsTol:       cfg.Pricing.AbsTol,
				RelTol:       cfg.Pricing.RelTol,
				MaxIntervals: cfg.Pricing.MaxIntervals,
			},
		},
		st, st, logger,
	)

	sched := scheduler.New(
		scheduler.Config{Interval: cfg.Pricing.Interval},
		eng, registry, collector, logger,
	)
	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	// Websocket relay
	quoteRelay := relay.New(
		relay.Config{Interval: cfg.Server.RelayInterval},
		st, collector, logger,
	)
	if err := quoteRelay.Start(ctx); err != nil {
		logger.Error("failed to start relay", "error", err)
		os.Exit(1)
	}

	// HTTP API
	apiServer := server.New(
		server.Config{Port: cfg.Server.Port, MetricsPath: cfg.Metrics.Path},
		server.NewHandler(st, st, logger),
		collector.Handler(),
		quoteRelay,
		logger,
	)
	if err := apiServer.Start(ctx); err != nil {
		logger.Error("failed to start http server", "error", err)
		os.Exit(1)
	}

	logger.Info("quoter running",
		"instance_id", cfg.Instance.ID,
		"port", cfg.Server.Port,
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop in reverse dependency order: outer surfaces first, storage last.
	apiServer.Stop(shutdownCtx)
	quoteRelay.Stop(shutdownCtx)
	sched.Stop(shutdownCtx)
	pricePoller.Stop(shutdownCtx)
	priceWriter.Stop(shutdownCtx)

	logger.Info("quoter stopped")
}
