package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rickgao/options-data/internal/model"
)

// ErrInsufficientHistory reports that fewer than 2 usable spot samples were
// available, leaving the log-return series empty. Fatal for the run.
var ErrInsufficientHistory = errors.New("insufficient spot history")

// EstimateVariance returns the population variance (divide by N, not N-1) of
// the log-return series of the given samples.
//
// Samples are reordered to chronological before differencing, so callers may
// pass them in whatever order the store returns them. The estimate itself is
// direction-invariant: reversing the series negates every log return, and
// variance is unchanged under negation. Non-positive closes are dropped before
// differencing, so a bad sample costs only its own observation, not its
// neighbours' return.
func EstimateVariance(samples []model.SpotSample) (float64, error) {
	ordered := make([]model.SpotSample, len(samples))
	copy(ordered, samples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	prices := make([]float64, 0, len(ordered))
	for _, s := range ordered {
		if s.Close <= 0 {
			continue // no log price
		}
		prices = append(prices, s.Close)
	}
	if len(prices) < 2 {
		return 0, fmt.Errorf("%w: %d usable samples of %d, need at least 2", ErrInsufficientHistory, len(prices), len(samples))
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, math.Log(prices[i]/prices[i-1]))
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	return ss / float64(len(returns)), nil
}
