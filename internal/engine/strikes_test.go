package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTickSize(t *testing.T) {
	tests := []struct {
		spot float64
		want string
	}{
		{0.305, "0.001"},
		{0.9999, "0.001"},
		{1, "0.1"},
		{55, "0.1"},
		{99.99, "0.1"},
		{100, "1"},
		{999.99, "1"},
		{1000, "10"},
		{1800, "10"},
	}

	for _, tt := range tests {
		if got := TickSize(tt.spot).String(); got != tt.want {
			t.Errorf("TickSize(%v) = %s, want %s", tt.spot, got, tt.want)
		}
	}
}

func TestGenerateStrikesDefaults(t *testing.T) {
	strikes := GenerateStrikes(1800, 0.10, 5)

	want := []string{"1620", "1660", "1690", "1730", "1760", "1800", "1840", "1870", "1910", "1940", "1980"}
	if len(strikes) != len(want) {
		t.Fatalf("got %d strikes, want %d: %v", len(strikes), len(want), strikes)
	}
	for i, w := range want {
		if strikes[i].String() != w {
			t.Errorf("strikes[%d] = %s, want %s", i, strikes[i], w)
		}
	}
}

func TestGenerateStrikesFractional(t *testing.T) {
	strikes := GenerateStrikes(0.305, 0.10, 5)

	want := []string{"0.275", "0.281", "0.287", "0.293", "0.299", "0.305", "0.311", "0.317", "0.323", "0.329", "0.336"}
	if len(strikes) != len(want) {
		t.Fatalf("got %d strikes, want %d: %v", len(strikes), len(want), strikes)
	}
	for i, w := range want {
		if strikes[i].String() != w {
			t.Errorf("strikes[%d] = %s, want %s", i, strikes[i], w)
		}
	}
}

func TestGenerateStrikesCollisions(t *testing.T) {
	// At spot 1.04 the 0.1 tick collapses the 11 steps onto 3 strikes.
	strikes := GenerateStrikes(1.04, 0.10, 5)

	want := []string{"0.9", "1", "1.1"}
	if len(strikes) != len(want) {
		t.Fatalf("got %d strikes, want %d: %v", len(strikes), len(want), strikes)
	}
	for i, w := range want {
		if strikes[i].String() != w {
			t.Errorf("strikes[%d] = %s, want %s", i, strikes[i], w)
		}
	}
}

func TestGenerateStrikesProperties(t *testing.T) {
	for _, spot := range []float64{0.42, 3.7, 55, 250, 1800, 25000} {
		strikes := GenerateStrikes(spot, 0.10, 5)

		if len(strikes) == 0 || len(strikes) > 11 {
			t.Errorf("spot %v: cardinality %d, want 1..11", spot, len(strikes))
		}

		seen := map[string]struct{}{}
		prev := decimal.New(0, 0)
		for i, k := range strikes {
			if i > 0 && !prev.LessThan(k) {
				t.Errorf("spot %v: strikes not strictly ascending at %d: %s then %s", spot, i, prev, k)
			}
			if _, dup := seen[k.String()]; dup {
				t.Errorf("spot %v: duplicate strike %s", spot, k)
			}
			seen[k.String()] = struct{}{}
			prev = k
		}
	}
}
