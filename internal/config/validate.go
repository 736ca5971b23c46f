package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *QuoterConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if len(c.Feed.Symbols) == 0 {
		return errors.New("feed.symbols must list at least one symbol")
	}
	for i, s := range c.Feed.Symbols {
		if s.Symbol == "" {
			return fmt.Errorf("feed.symbols[%d].symbol is required", i)
		}
		if s.FeedID == "" {
			return fmt.Errorf("feed.symbols[%d].feed_id is required", i)
		}
	}

	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}

	p := &c.Pricing
	// The cron scheduler fires at whole-second boundaries; a sub-second
	// cadence would be silently rounded up, so reject it here.
	if p.Interval < time.Second {
		return fmt.Errorf("pricing.interval must be >= 1s, got %v", p.Interval)
	}
	if p.Sigma == 0 {
		return errors.New("pricing.sigma must be non-zero (appears as a divisor)")
	}
	if p.Kappa <= 0 {
		return errors.New("pricing.kappa must be > 0")
	}
	if p.Theta < 0 {
		return errors.New("pricing.theta must be >= 0")
	}
	if p.Rho < -1 || p.Rho > 1 {
		return fmt.Errorf("pricing.rho must be in [-1, 1], got %v", p.Rho)
	}
	if p.Spread < 0 || p.Spread >= 2 {
		return fmt.Errorf("pricing.spread must be in [0, 2), got %v", p.Spread)
	}
	if p.PctRange <= 0 {
		return errors.New("pricing.pct_range must be > 0")
	}
	if p.StrikeSteps < 1 {
		return errors.New("pricing.strike_steps must be >= 1")
	}
	for i, d := range p.ExpiryDays {
		if d < 1 {
			return fmt.Errorf("pricing.expiry_days[%d] must be >= 1, got %d", i, d)
		}
	}
	for i, typ := range p.OptionTypes {
		if typ != "call" && typ != "put" {
			return fmt.Errorf("pricing.option_types[%d] must be call or put, got %q", i, typ)
		}
	}
	if p.HistoryLimit < 2 {
		return errors.New("pricing.history_limit must be >= 2")
	}
	if p.PhiMax <= 0 {
		return errors.New("pricing.phi_max must be > 0")
	}
	if p.MaxIntervals < 1 {
		return errors.New("pricing.max_intervals must be >= 1")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
