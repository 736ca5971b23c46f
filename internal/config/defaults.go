package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultFeedURL        = "https://hermes.pyth.network"
	DefaultFeedTimeout    = 5 * time.Second
	DefaultFeedMaxRetries = 3

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultPollInterval    = 2500 * time.Millisecond
	DefaultPollConcurrency = 4
	DefaultPollTimeout     = 5 * time.Second

	DefaultPricingInterval     = 1 * time.Second
	DefaultSpread              = 0.02
	DefaultRiskFreeRate        = 0.01
	DefaultKappa               = 0.5
	DefaultTheta               = 0.04
	DefaultSigma               = 0.8
	DefaultRho                 = -0.7
	DefaultPctRange            = 0.10
	DefaultStrikeSteps         = 5
	DefaultHistoryLimit        = 50
	DefaultPricingConcurrency  = 8
	DefaultPhiMax              = 85
	DefaultQuadratureTolerance = 1e-6
	DefaultMaxIntervals        = 300

	DefaultServerPort    = 5000
	DefaultRelayInterval = 1 * time.Second
	DefaultMetricsPath   = "/metrics"
)

// Default slice values.
var (
	DefaultExpiryDays  = []int{7, 30}
	DefaultOptionTypes = []string{"call", "put"}
)

func (c *QuoterConfig) applyDefaults() {
	// Feed defaults
	if c.Feed.URL == "" {
		c.Feed.URL = DefaultFeedURL
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = DefaultFeedTimeout
	}
	if c.Feed.MaxRetries == 0 {
		c.Feed.MaxRetries = DefaultFeedMaxRetries
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}

	// Pricing defaults
	p := &c.Pricing
	if p.Interval == 0 {
		p.Interval = DefaultPricingInterval
	}
	if p.Spread == 0 {
		p.Spread = DefaultSpread
	}
	if p.RiskFreeRate == 0 {
		p.RiskFreeRate = DefaultRiskFreeRate
	}
	if p.Kappa == 0 {
		p.Kappa = DefaultKappa
	}
	if p.Theta == 0 {
		p.Theta = DefaultTheta
	}
	if p.Sigma == 0 {
		p.Sigma = DefaultSigma
	}
	if p.Rho == 0 {
		p.Rho = DefaultRho
	}
	if p.PctRange == 0 {
		p.PctRange = DefaultPctRange
	}
	if p.StrikeSteps == 0 {
		p.StrikeSteps = DefaultStrikeSteps
	}
	if len(p.ExpiryDays) == 0 {
		p.ExpiryDays = append([]int(nil), DefaultExpiryDays...)
	}
	if len(p.OptionTypes) == 0 {
		p.OptionTypes = append([]string(nil), DefaultOptionTypes...)
	}
	if p.HistoryLimit == 0 {
		p.HistoryLimit = DefaultHistoryLimit
	}
	if p.Concurrency == 0 {
		p.Concurrency = DefaultPricingConcurrency
	}
	if p.PhiMax == 0 {
		p.PhiMax = DefaultPhiMax
	}
	if p.AbsTol == 0 {
		p.AbsTol = DefaultQuadratureTolerance
	}
	if p.RelTol == 0 {
		p.RelTol = DefaultQuadratureTolerance
	}
	if p.MaxIntervals == 0 {
		p.MaxIntervals = DefaultMaxIntervals
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.RelayInterval == 0 {
		c.Server.RelayInterval = DefaultRelayInterval
	}

	// Metrics defaults
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
