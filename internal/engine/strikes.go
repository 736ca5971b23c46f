package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TickSize returns the strike tick for a spot magnitude.
func TickSize(spot float64) decimal.Decimal {
	switch {
	case spot < 1:
		return decimal.New(1, -3) // 0.001
	case spot < 100:
		return decimal.New(1, -1) // 0.1
	case spot < 1000:
		return decimal.NewFromInt(1)
	default:
		return decimal.NewFromInt(10)
	}
}

// GenerateStrikes produces the candidate strikes around spot: for each step in
// [-steps, +steps], spot*(1+step*pctRange/steps) rounded to the tick.
//
// Rounding at coarse ticks can collapse neighbouring steps onto the same
// strike; duplicates are dropped (expected, not an error) and the result is
// sorted ascending. Arithmetic runs in decimals so the rounded strikes are
// exact and render cleanly in instrument names.
func GenerateStrikes(spot, pctRange float64, steps int) []decimal.Decimal {
	tick := TickSize(spot)
	spotD := decimal.NewFromFloat(spot)
	rangeD := decimal.NewFromFloat(pctRange)
	stepsD := decimal.NewFromInt(int64(steps))
	one := decimal.NewFromInt(1)

	seen := make(map[string]struct{}, 2*steps+1)
	strikes := make([]decimal.Decimal, 0, 2*steps+1)
	for step := -steps; step <= steps; step++ {
		pct := decimal.NewFromInt(int64(step)).Mul(rangeD).Div(stepsD)
		candidate := spotD.Mul(one.Add(pct)).Div(tick).Round(0).Mul(tick)

		key := candidate.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		strikes = append(strikes, candidate)
	}

	sort.Slice(strikes, func(i, j int) bool { return strikes[i].LessThan(strikes[j]) })
	return strikes
}
