package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rickgao/options-data/internal/model"
)

// BuildInstruments expands strikes x expiry buckets x option types into
// instrument specifications. Ordering is deterministic: strike ascending, then
// expiry ascending, then option type in declaration order. An empty strike set
// yields an empty list.
func BuildInstruments(symbol string, strikes []decimal.Decimal, expiryDays []int, types []model.OptionType) []model.Instrument {
	instruments := make([]model.Instrument, 0, len(strikes)*len(expiryDays)*len(types))
	for _, strike := range strikes {
		for _, days := range expiryDays {
			for _, typ := range types {
				instruments = append(instruments, model.Instrument{
					Symbol:     symbol,
					Strike:     strike,
					ExpiryDays: days,
					Type:       typ,
				})
			}
		}
	}
	return instruments
}
