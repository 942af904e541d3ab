package service

import (
	"context"
	"math/big"

	"usdc_bridge/internal/app/port"
	"usdc_bridge/internal/pkg/metrics"
	"usdc_bridge/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// UnitConverterImpl implements port.UnitConverter.
type UnitConverterImpl struct {
	defaultDecimals uint8
	logger          port.Logger
}

// NewUnitConverter creates a converter falling back to defaultDecimals when the chain cannot answer.
func NewUnitConverter(defaultDecimals uint8, l port.Logger) *UnitConverterImpl {
	return &UnitConverterImpl{defaultDecimals: defaultDecimals, logger: l}
}

var _ port.UnitConverter = (*UnitConverterImpl)(nil)

// ToSmallestUnit reads the token's decimals and scales amount accordingly. Any failure
// resolving decimals is an expected degraded mode, not an error.
func (u *UnitConverterImpl) ToSmallestUnit(ctx context.Context, client port.EVMClient, token common.Address, amount decimal.Decimal) *big.Int {
	return utils.ParseUnits(amount, u.Decimals(ctx, client, token))
}

// Decimals resolves the decimal count of token, or the default on failure.
func (u *UnitConverterImpl) Decimals(ctx context.Context, client port.EVMClient, token common.Address) uint8 {
	network := "unknown"
	if client == nil {
		u.logger.Warn("No EVM client available, assuming default token decimals",
			"token", token.Hex(), "decimals", u.defaultDecimals)
		metrics.RecordFallback(metrics.FallbackDecimals, network)
		return u.defaultDecimals
	}
	network = client.Definition().Identifier

	decimals, err := client.TokenDecimals(ctx, token)
	if err != nil {
		u.logger.Warn("Failed to read token decimals, assuming default",
			"network", network, "token", token.Hex(), "decimals", u.defaultDecimals, "error", err)
		metrics.RecordFallback(metrics.FallbackDecimals, network)
		return u.defaultDecimals
	}
	return decimals
}
