package heston

import (
	"errors"
	"math"
	"testing"

	"github.com/rickgao/options-data/internal/model"
)

// goldenParams pins the characteristic function and quadrature to a reference
// Heston implementation: S=100, K=100, T=1, r=0.01, kappa=0.5, theta=0.04,
// sigma=0.8, rho=-0.7, v0=0.04.
var goldenParams = model.ModelParameters{
	Spot:  100,
	Rate:  0.01,
	Kappa: 0.5,
	Theta: 0.04,
	Sigma: 0.8,
	Rho:   -0.7,
	V0:    0.04,
}

func TestPriceGoldenScenario(t *testing.T) {
	const (
		wantCall = 6.0400781513
		wantPut  = 5.0450615263
	)

	call, err := Price(goldenParams, 100, 1, model.OptionTypeCall, DefaultQuadrature())
	if err != nil {
		t.Fatalf("Price(call) failed: %v", err)
	}
	put, err := Price(goldenParams, 100, 1, model.OptionTypePut, DefaultQuadrature())
	if err != nil {
		t.Fatalf("Price(put) failed: %v", err)
	}

	if math.Abs(call.Price-wantCall) > 1e-3 {
		t.Errorf("call price = %.10f, want %.10f +/- 1e-3", call.Price, wantCall)
	}
	if math.Abs(put.Price-wantPut) > 1e-3 {
		t.Errorf("put price = %.10f, want %.10f +/- 1e-3", put.Price, wantPut)
	}
	if !call.Converged || !put.Converged {
		t.Errorf("golden scenario should converge: call=%v put=%v", call.Converged, put.Converged)
	}
}

func TestPutCallParity(t *testing.T) {
	strikes := []float64{80, 90, 100, 110, 120}

	for _, k := range strikes {
		call, err := Price(goldenParams, k, 1, model.OptionTypeCall, DefaultQuadrature())
		if err != nil {
			t.Fatalf("Price(call, K=%v) failed: %v", k, err)
		}
		put, err := Price(goldenParams, k, 1, model.OptionTypePut, DefaultQuadrature())
		if err != nil {
			t.Fatalf("Price(put, K=%v) failed: %v", k, err)
		}

		want := goldenParams.Spot - k*math.Exp(-goldenParams.Rate*1)
		if got := call.Price - put.Price; math.Abs(got-want) > 1e-5 {
			t.Errorf("K=%v: call-put = %.8f, want %.8f (parity)", k, got, want)
		}
	}
}

func TestCallMonotoneInStrike(t *testing.T) {
	strikes := []float64{85, 90, 95, 100, 105, 110, 115}

	prevCall := math.Inf(1)
	prevPut := math.Inf(-1)
	for _, k := range strikes {
		call, err := Price(goldenParams, k, 0.5, model.OptionTypeCall, DefaultQuadrature())
		if err != nil {
			t.Fatal(err)
		}
		put, err := Price(goldenParams, k, 0.5, model.OptionTypePut, DefaultQuadrature())
		if err != nil {
			t.Fatal(err)
		}

		if call.Price > prevCall+1e-9 {
			t.Errorf("call price increased in strike at K=%v: %v > %v", k, call.Price, prevCall)
		}
		if put.Price < prevPut-1e-9 {
			t.Errorf("put price decreased in strike at K=%v: %v < %v", k, put.Price, prevPut)
		}
		if call.Price < 0 || put.Price < 0 {
			t.Errorf("negative price at K=%v: call=%v put=%v", k, call.Price, put.Price)
		}

		prevCall = call.Price
		prevPut = put.Price
	}
}

func TestShortDatedScenarios(t *testing.T) {
	// Values cross-checked against a reference implementation of the same
	// formulas (kappa=0.5, theta=0.04, sigma=0.8, rho=-0.7, r=0.01).
	tests := []struct {
		name     string
		spot     float64
		strike   float64
		t        float64
		v0       float64
		wantCall float64
		wantPut  float64
	}{
		{"ETH at-the-money 7d", 1800, 1800, 7.0 / 365, 0.02, 12.32175995, 11.97658757},
		{"ETH out-of-the-money 7d", 1800, 1890, 7.0 / 365, 0.02, 1.82904066, 91.46660967},
		{"sub-dollar 30d", 0.305, 0.305, 30.0 / 365, 0.09, 0.01025277, 0.01000219},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := goldenParams
			p.Spot = tt.spot
			p.V0 = tt.v0

			call, err := Price(p, tt.strike, tt.t, model.OptionTypeCall, DefaultQuadrature())
			if err != nil {
				t.Fatal(err)
			}
			put, err := Price(p, tt.strike, tt.t, model.OptionTypePut, DefaultQuadrature())
			if err != nil {
				t.Fatal(err)
			}

			if math.Abs(call.Price-tt.wantCall) > 1e-3 {
				t.Errorf("call = %.8f, want %.8f", call.Price, tt.wantCall)
			}
			if math.Abs(put.Price-tt.wantPut) > 1e-3 {
				t.Errorf("put = %.8f, want %.8f", put.Price, tt.wantPut)
			}
		})
	}
}

func TestZeroVarianceEdge(t *testing.T) {
	// v0 = theta = 0 must not produce NaN or Inf anywhere (sigma != 0 keeps
	// the sigma^2 divisors alive).
	p := goldenParams
	p.V0 = 0
	p.Theta = 0

	for _, typ := range []model.OptionType{model.OptionTypeCall, model.OptionTypePut} {
		res, err := Price(p, 100, 1, typ, DefaultQuadrature())
		if err != nil {
			t.Fatalf("Price(%s) failed: %v", typ, err)
		}
		if math.IsNaN(res.Price) || math.IsInf(res.Price, 0) {
			t.Errorf("%s price = %v, want finite", typ, res.Price)
		}
		if res.Price < 0 {
			t.Errorf("%s price = %v, want >= 0", typ, res.Price)
		}
	}
}

func TestUnsupportedOptionType(t *testing.T) {
	_, err := Price(goldenParams, 100, 1, model.OptionType("straddle"), DefaultQuadrature())
	if !errors.Is(err, ErrUnsupportedOptionType) {
		t.Errorf("err = %v, want ErrUnsupportedOptionType", err)
	}
}
