// Package stargate quotes and builds EVM-origin USDC transfers through the Stargate router.
package stargate

import (
	"context"
	"fmt"
	"math/big"

	"usdc_bridge/internal/app/adapter"
	"usdc_bridge/internal/app/port"
	"usdc_bridge/internal/domain/chain"
	"usdc_bridge/internal/domain/entity"
	"usdc_bridge/internal/pkg/contracts"
	"usdc_bridge/internal/pkg/metrics"
	"usdc_bridge/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// RouteName is the route reported in quotes.
const RouteName = "Stargate"

const (
	noteApprove           = "Send the approve transaction first. Once it is mined, call /api/bridge again with a recipient to get the swap transaction."
	noteApproveNoRoute    = "Approve transaction only. No LayerZero chain id is configured for the destination, so the swap cannot be built yet; do not approve until it is."
	noteAllowanceTooLow   = "Current allowance is below the transfer amount. Send the approve transaction, then call /api/bridge again."
	noteSwap              = "Stargate swap transaction ready to sign."
	noteSwapWithoutLZFees = "Stargate swap transaction ready to sign. The messaging fee could not be estimated and is set to 0; the wallet may report a revert."
)

// Schedule is the Stargate pricing: 0.15% fee with a 0.25 floor, rate 0.9992.
var Schedule = adapter.FeeSchedule{ //nolint:gochecknoglobals
	Route:    RouteName,
	Family:   entity.FamilyEVM,
	Rate:     decimal.RequireFromString("0.9992"),
	FeeFloor: decimal.RequireFromString("0.25"),
	FeeRate:  decimal.RequireFromString("0.0015"),
	ETA:      "~3–6 min",
}

// Options holds the bridge parameters the adapter needs from configuration.
type Options struct {
	PoolID             uint64
	DefaultSlippageBps uint32
}

// Adapter implements port.RouteAdapter for the EVM family.
type Adapter struct {
	networks   port.NetworkDefinitionProvider
	clients    port.BlockchainClientProvider
	converter  port.UnitConverter
	classifier *chain.Classifier
	opts       Options
	logger     port.Logger
}

// NewAdapter creates a Stargate adapter.
func NewAdapter(
	np port.NetworkDefinitionProvider,
	cp port.BlockchainClientProvider,
	uc port.UnitConverter,
	classifier *chain.Classifier,
	opts Options,
	l port.Logger,
) *Adapter {
	if opts.PoolID == 0 {
		opts.PoolID = 1
	}
	return &Adapter{networks: np, clients: cp, converter: uc, classifier: classifier, opts: opts, logger: l}
}

var _ port.RouteAdapter = (*Adapter)(nil)

// Family returns entity.FamilyEVM.
func (a *Adapter) Family() entity.ChainFamily {
	return entity.FamilyEVM
}

// Quote estimates an EVM to EVM transfer. No network call is made.
func (a *Adapter) Quote(req entity.QuoteRequest) (entity.Quote, error) {
	if !a.classifier.IsEVM(req.FromChain) || !a.classifier.IsEVM(req.ToChain) {
		return entity.Quote{}, fmt.Errorf("%w: %s only quotes EVM to EVM, got %s -> %s",
			entity.ErrInvalidRoute, RouteName, req.FromChain, req.ToChain)
	}
	return Schedule.Estimate(req.Amount), nil
}

// BuildTransfer returns the approve call when no recipient is given, the router swap call otherwise.
func (a *Adapter) BuildTransfer(ctx context.Context, req entity.BuildRequest) (entity.UnsignedTx, error) {
	fromDef, ok := a.networks.GetNetworkDefinitionByName(req.FromChain)
	if !ok {
		return entity.UnsignedTx{}, fmt.Errorf("%w: %q", entity.ErrUnknownChain, req.FromChain)
	}
	if !fromDef.IsEVM() {
		return entity.UnsignedTx{}, fmt.Errorf("%w: %s builds EVM-origin transfers only, got %s",
			entity.ErrInvalidRoute, RouteName, fromDef.Identifier)
	}

	router, err := configuredAddress(fromDef.RouterAddress, "Stargate router", fromDef.Identifier)
	if err != nil {
		return entity.UnsignedTx{}, err
	}
	usdc, err := configuredAddress(fromDef.USDCAddress, "USDC contract", fromDef.Identifier)
	if err != nil {
		return entity.UnsignedTx{}, err
	}

	if !req.Amount.Valid {
		return entity.UnsignedTx{}, fmt.Errorf("%w: amount", entity.ErrMissingParameter)
	}
	if req.Amount.Decimal.Sign() <= 0 {
		return entity.UnsignedTx{}, fmt.Errorf("%w: amount must be positive, got %s", entity.ErrInvalidParameter, req.Amount.Decimal)
	}

	client, err := a.clients.GetEVMClient(fromDef)
	if err != nil {
		a.logger.Warn("EVM client unavailable, continuing with fallbacks", "network", fromDef.Identifier, "error", err)
	}

	if req.Recipient == "" {
		amount := a.converter.ToSmallestUnit(ctx, client, usdc, req.Amount.Decimal)
		if err := checkNonZero(amount, req.Amount.Decimal); err != nil {
			return entity.UnsignedTx{}, err
		}
		note := noteApprove
		if toDef, ok := a.networks.GetNetworkDefinitionByName(req.ToChain); ok && toDef.LayerZeroChainID == 0 {
			note = noteApproveNoRoute
		}
		return approveEnvelope(usdc, router, amount, note)
	}

	return a.buildSwap(ctx, req, fromDef, client, router, usdc)
}

func (a *Adapter) buildSwap(
	ctx context.Context,
	req entity.BuildRequest,
	fromDef entity.NetworkDefinition,
	client port.EVMClient,
	router, usdc common.Address,
) (entity.UnsignedTx, error) {
	toDef, ok := a.networks.GetNetworkDefinitionByName(req.ToChain)
	if !ok {
		return entity.UnsignedTx{}, fmt.Errorf("%w: %q", entity.ErrUnknownChain, req.ToChain)
	}
	if toDef.LayerZeroChainID == 0 {
		return entity.UnsignedTx{}, fmt.Errorf("%w: no LayerZero chain id configured for %s", entity.ErrConfiguration, toDef.Identifier)
	}

	recipient, err := EncodeRecipient(toDef, req.Recipient)
	if err != nil {
		return entity.UnsignedTx{}, err
	}

	slippageBps := a.opts.DefaultSlippageBps
	if req.SlippageBps != nil {
		slippageBps = *req.SlippageBps
	}
	if slippageBps > 10000 {
		return entity.UnsignedTx{}, fmt.Errorf("%w: slippageBps must be within 0..10000, got %d", entity.ErrInvalidParameter, slippageBps)
	}

	var sender *common.Address
	if req.Sender != "" {
		if !common.IsHexAddress(req.Sender) {
			return entity.UnsignedTx{}, fmt.Errorf("%w: sender %q is not an EVM address", entity.ErrInvalidParameter, req.Sender)
		}
		addr := common.HexToAddress(req.Sender)
		sender = &addr
	}

	var (
		decimals  uint8
		amount    *big.Int
		fee       *big.Int
		allowance *big.Int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		decimals = a.converter.Decimals(gctx, client, usdc)
		amount = utils.ParseUnits(req.Amount.Decimal, decimals)
		return nil
	})
	g.Go(func() error {
		fee = a.messagingFee(gctx, client, fromDef, router, toDef.LayerZeroChainID, recipient)
		return nil
	})
	if sender != nil {
		g.Go(func() error {
			allowance = a.allowance(gctx, client, fromDef, usdc, *sender, router)
			return nil
		})
	}
	_ = g.Wait()

	if err := checkNonZero(amount, req.Amount.Decimal); err != nil {
		return entity.UnsignedTx{}, err
	}

	if allowance != nil && allowance.Cmp(amount) < 0 {
		a.logger.Info("Allowance below transfer amount, returning approve transaction",
			"network", fromDef.Identifier,
			"allowance", utils.FormatBigInt(allowance, decimals),
			"amount", utils.FormatBigInt(amount, decimals))
		return approveEnvelope(usdc, router, amount, noteAllowanceTooLow)
	}

	refund := common.Address{}
	if sender != nil {
		refund = *sender
	}
	minAmount := utils.ApplySlippage(amount, slippageBps)

	data, err := contracts.StargateRouter().Pack("swap",
		toDef.LayerZeroChainID,
		new(big.Int).SetUint64(a.opts.PoolID),
		new(big.Int).SetUint64(a.opts.PoolID),
		refund,
		amount,
		minAmount,
		contracts.EmptyLzTxParams(),
		recipient,
		[]byte{},
	)
	if err != nil {
		return entity.UnsignedTx{}, fmt.Errorf("failed to encode Stargate swap: %w", err)
	}

	note := noteSwap
	if fee == nil {
		fee = big.NewInt(0)
		note = noteSwapWithoutLZFees
	}

	a.logger.Debug("Built Stargate swap",
		"from", fromDef.Identifier, "to", toDef.Identifier,
		"amount", utils.FormatBigInt(amount, decimals),
		"minAmount", utils.FormatBigInt(minAmount, decimals),
		"fee", utils.FormatBigInt(fee, 18))

	return entity.NewEVMEnvelope(entity.EVMTransaction{
		To:    router.Hex(),
		Data:  hexutil.Encode(data),
		Value: hexutil.EncodeBig(fee),
	}, false, note), nil
}

// messagingFee returns the LayerZero fee quoted by the router, or nil when it cannot be read.
func (a *Adapter) messagingFee(
	ctx context.Context,
	client port.EVMClient,
	fromDef entity.NetworkDefinition,
	router common.Address,
	dstChainID uint16,
	recipient []byte,
) *big.Int {
	if client == nil {
		metrics.RecordFallback(metrics.FallbackMessagingFee, fromDef.Identifier)
		return nil
	}
	fee, err := client.QuoteLayerZeroFee(ctx, router, dstChainID, recipient)
	if err != nil {
		a.logger.Warn("Failed to quote LayerZero fee, attaching zero value",
			"network", fromDef.Identifier, "router", router.Hex(), "error", err)
		metrics.RecordFallback(metrics.FallbackMessagingFee, fromDef.Identifier)
		return nil
	}
	return fee
}

// allowance returns the current allowance, or nil when it cannot be read and the
// caller's resubmission is trusted instead.
func (a *Adapter) allowance(
	ctx context.Context,
	client port.EVMClient,
	fromDef entity.NetworkDefinition,
	usdc, owner, spender common.Address,
) *big.Int {
	if client == nil {
		metrics.RecordFallback(metrics.FallbackAllowance, fromDef.Identifier)
		return nil
	}
	allowance, err := client.Allowance(ctx, usdc, owner, spender)
	if err != nil {
		a.logger.Warn("Failed to read allowance, trusting resubmission",
			"network", fromDef.Identifier, "owner", owner.Hex(), "error", err)
		metrics.RecordFallback(metrics.FallbackAllowance, fromDef.Identifier)
		return nil
	}
	return allowance
}

// checkNonZero rejects amounts smaller than one unit of the token.
func checkNonZero(amount *big.Int, human decimal.Decimal) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount %s is below the token's smallest unit", entity.ErrInvalidParameter, human)
	}
	return nil
}

func approveEnvelope(usdc, router common.Address, amount *big.Int, note string) (entity.UnsignedTx, error) {
	data, err := contracts.ERC20().Pack("approve", router, amount)
	if err != nil {
		return entity.UnsignedTx{}, fmt.Errorf("failed to encode approve: %w", err)
	}
	return entity.NewEVMEnvelope(entity.EVMTransaction{
		To:    usdc.Hex(),
		Data:  hexutil.Encode(data),
		Value: "0x0",
	}, true, note), nil
}

func configuredAddress(raw, what, network string) (common.Address, error) {
	if raw == "" {
		return common.Address{}, fmt.Errorf("%w: no %s configured for %s", entity.ErrConfiguration, what, network)
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%w: %s for %s is not an address: %q", entity.ErrConfiguration, what, network, raw)
	}
	return common.HexToAddress(raw), nil
}

// EncodeRecipient returns the Stargate "to" bytes: the 20 address bytes for EVM
// destinations, the 32 public key bytes for Solana.
func EncodeRecipient(toDef entity.NetworkDefinition, recipient string) ([]byte, error) {
	switch toDef.Family {
	case entity.FamilyEVM:
		if !common.IsHexAddress(recipient) {
			return nil, fmt.Errorf("%w: recipient %q is not an EVM address", entity.ErrInvalidParameter, recipient)
		}
		return common.HexToAddress(recipient).Bytes(), nil
	case entity.FamilySolana:
		pk, err := solana.PublicKeyFromBase58(recipient)
		if err != nil {
			return nil, fmt.Errorf("%w: recipient %q is not a Solana public key: %w", entity.ErrInvalidParameter, recipient, err)
		}
		return pk.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported destination family %q", entity.ErrConfiguration, toDef.Family)
	}
}
