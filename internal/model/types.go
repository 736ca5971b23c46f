package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OptionType identifies the contract side.
type OptionType string

const (
	OptionTypeCall OptionType = "call"
	OptionTypePut  OptionType = "put"
)

// -----------------------------------------------------------------------------
// Market Data Types
// -----------------------------------------------------------------------------

// Asset is a tracked cryptocurrency (row in cryptocurrencies).
type Asset struct {
	ID     int64  // Primary key (crypto_id)
	Symbol string // Ticker symbol (e.g., "ETH")
}

// SpotSample is one observed closing price for an asset.
type SpotSample struct {
	Timestamp time.Time // Observation time
	Close     float64   // Closing price
}

// PriceSample is a live price observation destined for the crypto_prices table.
// The feed delivers single trades, so OHLC all collapse to the same price.
type PriceSample struct {
	CryptoID  int64     // Foreign key to Asset
	Symbol    string    // Ticker symbol
	Timestamp time.Time // Feed publish time
	Price     float64   // Observed price
}

// -----------------------------------------------------------------------------
// Pricing Types
// -----------------------------------------------------------------------------

// ModelParameters holds the Heston model inputs for one pricing run.
// Kappa, Theta, Sigma and Rho are externally configured constants;
// V0 is estimated from recent history each run.
type ModelParameters struct {
	Spot  float64 // Current spot price S
	Rate  float64 // Risk-free rate r
	Kappa float64 // Mean-reversion speed of variance
	Theta float64 // Long-run variance
	Sigma float64 // Volatility of variance (must be non-zero)
	Rho   float64 // Spot/variance correlation
	V0    float64 // Instantaneous variance
}

// Instrument is a synthetic option contract specification. Instruments are
// generated fresh each run and never persisted; only derived quotes are.
type Instrument struct {
	Symbol     string          // Underlying symbol
	Strike     decimal.Decimal // Strike, post tick-rounding
	ExpiryDays int             // Days until expiry
	Type       OptionType      // call or put
}

// Name renders the canonical instrument key "{symbol}-{strike}-{expiry}d-{type}",
// e.g. "ETH-1800-7d-call". Consumers key off this exact format.
func (i Instrument) Name() string {
	return fmt.Sprintf("%s-%s-%dd-%s", i.Symbol, i.Strike.String(), i.ExpiryDays, i.Type)
}

// Quote is a freshly computed option quote. Invariants: Mid >= 0 and,
// for spread >= 0, Bid <= Mid <= Ask.
type Quote struct {
	InstrumentName string          // Canonical instrument key
	CryptoID       int64           // Foreign key to Asset
	Bid            float64         // Mid * (1 - spread/2)
	Ask            float64         // Mid * (1 + spread/2)
	Mid            float64         // Heston model price
	Strike         decimal.Decimal // Strike, post tick-rounding
	ExpirationTS   int64           // Expiry (Unix seconds, computed at run time)
	Type           OptionType      // call or put
	ComputedAt     time.Time       // Run timestamp
}

// QuoteRow is a persisted crypto_options row as read back for API consumers.
// JSON field names match the wire format the frontend consumes.
type QuoteRow struct {
	InstrumentName string    `json:"instrument_name"`
	HestonPrice    float64   `json:"heston_price"`
	StrikePrice    float64   `json:"strike_price"`
	ExpirationDate int64     `json:"expiration_date"`
	OptionType     string    `json:"option_type"`
	Timestamp      time.Time `json:"timestamp"`
}
