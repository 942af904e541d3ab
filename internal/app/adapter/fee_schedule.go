// Package adapter holds what the route adapters share.
package adapter

import (
	"usdc_bridge/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// quotePrecision is the number of decimals kept in quoted fee and output amounts.
const quotePrecision = 6

// FeeSchedule is the static pricing of one route.
type FeeSchedule struct {
	Route    string
	Family   entity.ChainFamily
	Rate     decimal.Decimal
	FeeFloor decimal.Decimal
	FeeRate  decimal.Decimal
	ETA      string
}

// Estimate applies the schedule to amount:
// fee = max(floor, amount*feeRate), toAmount = max(0, amount*rate - fee).
func (s FeeSchedule) Estimate(amount decimal.Decimal) entity.Quote {
	fee := decimal.Max(s.FeeFloor, amount.Mul(s.FeeRate))
	toAmount := decimal.Max(decimal.Zero, amount.Mul(s.Rate).Sub(fee))

	return entity.Quote{
		Route:    s.Route,
		Family:   s.Family,
		Rate:     s.Rate.InexactFloat64(),
		Fee:      fee.Round(quotePrecision).InexactFloat64(),
		ToAmount: toAmount.Round(quotePrecision).InexactFloat64(),
		ETA:      s.ETA,
	}
}
