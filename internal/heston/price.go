package heston

import (
	"errors"
	"fmt"
	"math"

	"github.com/rickgao/options-data/internal/model"
)

// ErrUnsupportedOptionType reports an instrument type outside {call, put}.
// It is fatal for the instrument only, never for the batch.
var ErrUnsupportedOptionType = errors.New("unsupported option type")

// Result is one priced instrument.
type Result struct {
	Price  float64 // Option price, floored at zero
	P1, P2 float64 // Probability-like quantities from the two integrals

	// ErrEstimate is the larger of the two integrals' error estimates.
	// Converged reports whether both met the configured tolerance; callers
	// should log non-convergence rather than discard the price.
	ErrEstimate float64
	Converged   bool
}

// Price computes the Heston price of a European option with the given strike
// and maturity t (years).
func Price(p model.ModelParameters, strike, t float64, typ model.OptionType, cfg QuadratureConfig) (Result, error) {
	p1, e1, ok1 := probability(p, strike, t, 1, cfg)
	p2, e2, ok2 := probability(p, strike, t, 2, cfg)

	res := Result{
		P1:          p1,
		P2:          p2,
		ErrEstimate: math.Max(e1, e2),
		Converged:   ok1 && ok2,
	}

	discount := math.Exp(-p.Rate * t)
	switch typ {
	case model.OptionTypeCall:
		res.Price = math.Max(p.Spot*p1-strike*discount*p2, 0)
	case model.OptionTypePut:
		res.Price = math.Max(strike*discount*(1-p2)-p.Spot*(1-p1), 0)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedOptionType, typ)
	}

	return res, nil
}

// probability computes Pj = 0.5 + (1/pi) * integral of the branch-j integrand.
func probability(p model.ModelParameters, strike, t float64, j int, cfg QuadratureConfig) (float64, float64, bool) {
	v, e, ok := integrate(func(phi float64) float64 {
		return integrand(phi, p, strike, t, j)
	}, 0, cfg.PhiMax, cfg)
	return 0.5 + v/math.Pi, e, ok
}
