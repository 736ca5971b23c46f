package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestInstrumentName(t *testing.T) {
	tests := []struct {
		name string
		inst Instrument
		want string
	}{
		{
			name: "integer strike",
			inst: Instrument{Symbol: "ETH", Strike: decimal.NewFromInt(1800), ExpiryDays: 7, Type: OptionTypeCall},
			want: "ETH-1800-7d-call",
		},
		{
			name: "fractional strike",
			inst: Instrument{Symbol: "1INCH", Strike: decimal.RequireFromString("0.305"), ExpiryDays: 30, Type: OptionTypePut},
			want: "1INCH-0.305-30d-put",
		},
		{
			name: "trailing zero trimmed",
			inst: Instrument{Symbol: "SOL", Strike: decimal.New(550, -1), ExpiryDays: 7, Type: OptionTypeCall},
			want: "SOL-55-7d-call",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inst.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuoteInvariantFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	q := Quote{
		InstrumentName: "ETH-1800-7d-call",
		CryptoID:       1,
		Mid:            12.32,
		Bid:            12.32 * 0.99,
		Ask:            12.32 * 1.01,
		Strike:         decimal.NewFromInt(1800),
		ExpirationTS:   now.AddDate(0, 0, 7).Unix(),
		Type:           OptionTypeCall,
		ComputedAt:     now,
	}

	if q.Bid > q.Mid || q.Mid > q.Ask {
		t.Errorf("bid/mid/ask ordering violated: %v %v %v", q.Bid, q.Mid, q.Ask)
	}
	if q.ExpirationTS <= now.Unix() {
		t.Errorf("ExpirationTS = %d, want after %d", q.ExpirationTS, now.Unix())
	}
}
