package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes Prometheus metrics for pricing runs, the price feed and
// the websocket relay. It owns a private registry so tests can create
// collectors freely without duplicate registration panics.
type Collector struct {
	registry *prometheus.Registry

	engineRuns       *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec
	quotesWritten    *prometheus.CounterVec
	nonConverged     prometheus.Counter
	pollFetches      *prometheus.CounterVec
	relaySubscribers prometheus.Gauge
}

// NewCollector constructs a collector with all quoter metrics registered.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	engineRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quoter",
		Subsystem: "engine",
		Name:      "runs_total",
		Help:      "Total number of pricing runs by outcome.",
	}, []string{"symbol", "status"})

	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "quoter",
		Subsystem: "engine",
		Name:      "run_duration_seconds",
		Help:      "Latency distribution of pricing runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"symbol"})

	quotesWritten := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quoter",
		Subsystem: "engine",
		Name:      "quotes_written_total",
		Help:      "Total number of quotes persisted.",
	}, []string{"symbol"})

	nonConverged := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "quoter",
		Subsystem: "engine",
		Name:      "non_converged_total",
		Help:      "Total number of quotes priced past the quadrature budget.",
	})

	pollFetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quoter",
		Subsystem: "feed",
		Name:      "fetches_total",
		Help:      "Total number of spot price fetches by outcome.",
	}, []string{"symbol", "status"})

	relaySubscribers := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "quoter",
		Subsystem: "relay",
		Name:      "subscribers",
		Help:      "Current number of websocket subscriptions.",
	})

	for _, c := range []prometheus.Collector{
		engineRuns, runDuration, quotesWritten, nonConverged, pollFetches, relaySubscribers,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:         registry,
		engineRuns:       engineRuns,
		runDuration:      runDuration,
		quotesWritten:    quotesWritten,
		nonConverged:     nonConverged,
		pollFetches:      pollFetches,
		relaySubscribers: relaySubscribers,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRun records the outcome of one pricing run.
func (c *Collector) ObserveRun(symbol, status string, duration time.Duration) {
	c.engineRuns.WithLabelValues(symbol, status).Inc()
	c.runDuration.WithLabelValues(symbol).Observe(duration.Seconds())
}

// AddQuotesWritten records persisted quotes.
func (c *Collector) AddQuotesWritten(symbol string, n int) {
	c.quotesWritten.WithLabelValues(symbol).Add(float64(n))
}

// AddNonConverged records quotes priced past the quadrature budget.
func (c *Collector) AddNonConverged(n int) {
	c.nonConverged.Add(float64(n))
}

// ObserveFetch records one spot price fetch.
func (c *Collector) ObserveFetch(symbol, status string) {
	c.pollFetches.WithLabelValues(symbol, status).Inc()
}

// SetRelaySubscribers records the current subscription count.
func (c *Collector) SetRelaySubscribers(n int) {
	c.relaySubscribers.Set(float64(n))
}
