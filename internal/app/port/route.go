package port

import (
	"context"
	"math/big"

	"usdc_bridge/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// RouteAdapter quotes and builds transfers for one route family.
type RouteAdapter interface {
	Family() entity.ChainFamily
	Quote(req entity.QuoteRequest) (entity.Quote, error)
	BuildTransfer(ctx context.Context, req entity.BuildRequest) (entity.UnsignedTx, error)
}

// RouteService dispatches requests to the matching route adapter.
type RouteService interface {
	Quote(ctx context.Context, req entity.QuoteRequest) (entity.Quote, error)
	BuildTransfer(ctx context.Context, req entity.BuildRequest) (entity.UnsignedTx, error)
	Networks() []entity.NetworkDefinition
}

// UnitConverter scales human amounts into a token's smallest unit.
type UnitConverter interface {
	// ToSmallestUnit never fails: unreadable decimals fall back to a default.
	ToSmallestUnit(ctx context.Context, client EVMClient, token common.Address, amount decimal.Decimal) *big.Int
	// Decimals returns the token's decimal count, or the default when it cannot be read.
	Decimals(ctx context.Context, client EVMClient, token common.Address) uint8
}
