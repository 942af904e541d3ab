package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// FormatBigInt converts a big.Int value to a human-readable string,
// considering the given number of decimals.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}

// ParseUnits scales a human-readable amount into the token's smallest unit.
// Digits beyond the token precision are truncated; non-positive amounts yield zero.
// Example: amount=12.5, decimals=6 => 12500000
func ParseUnits(amount decimal.Decimal, decimals uint8) *big.Int {
	if amount.Sign() <= 0 {
		return big.NewInt(0)
	}
	return amount.Shift(int32(decimals)).Truncate(0).BigInt()
}

// ApplySlippage returns amount - amount*bps/10000 using integer division.
func ApplySlippage(amount *big.Int, bps uint32) *big.Int {
	if amount == nil {
		return big.NewInt(0)
	}
	cut := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(bps)))
	cut.Quo(cut, big.NewInt(10000))
	return new(big.Int).Sub(amount, cut)
}
