package config

import "time"

// QuoterConfig is the root configuration for a quoter instance.
type QuoterConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	Database DBConfig       `yaml:"database"`
	Feed     FeedConfig     `yaml:"feed"`
	Poller   PollerConfig   `yaml:"poller"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InstanceConfig identifies this quoter.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// DBConfig holds the Postgres connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// FeedConfig holds the Pyth Hermes price feed settings.
type FeedConfig struct {
	URL        string         `yaml:"url"`
	Timeout    time.Duration  `yaml:"timeout"`
	MaxRetries int            `yaml:"max_retries"`
	Symbols    []SymbolConfig `yaml:"symbols"`
}

// SymbolConfig maps a tracked symbol to its Pyth price feed id.
type SymbolConfig struct {
	Symbol string `yaml:"symbol"`
	FeedID string `yaml:"feed_id"`
}

// PollerConfig holds spot price ingestion settings.
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

// PricingConfig holds the Heston model and grid parameters. Kappa, Theta,
// Sigma and Rho are fixed model inputs; only v0 is estimated per run.
type PricingConfig struct {
	Interval time.Duration `yaml:"interval"`

	Spread       float64 `yaml:"spread"`
	RiskFreeRate float64 `yaml:"risk_free_rate"`
	Kappa        float64 `yaml:"kappa"`
	Theta        float64 `yaml:"theta"`
	Sigma        float64 `yaml:"sigma"`
	Rho          float64 `yaml:"rho"`

	PctRange    float64  `yaml:"pct_range"`
	StrikeSteps int      `yaml:"strike_steps"`
	ExpiryDays  []int    `yaml:"expiry_days"`
	OptionTypes []string `yaml:"option_types"`

	HistoryLimit int `yaml:"history_limit"`
	Concurrency  int `yaml:"concurrency"`

	PhiMax       float64 `yaml:"phi_max"`
	AbsTol       float64 `yaml:"abs_tol"`
	RelTol       float64 `yaml:"rel_tol"`
	MaxIntervals int     `yaml:"max_intervals"`
}

// ServerConfig holds the HTTP/WebSocket API settings.
type ServerConfig struct {
	Port          int           `yaml:"port"`
	RelayInterval time.Duration `yaml:"relay_interval"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Path string `yaml:"path"`
}
