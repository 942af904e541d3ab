package client

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"usdc_bridge/internal/app/port"
	"usdc_bridge/internal/domain/entity"
	"usdc_bridge/internal/pkg/contracts"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ContractCaller is the subset of ethclient.Client used for read-only contract calls.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// EVMClient implements port.EVMClient for EVM-compatible chains.
type EVMClient struct {
	caller         ContractCaller
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
}

// NewEVMClient dials the primary RPC of netDef, falling back to the next URL on dial failure.
func NewEVMClient(netDef entity.NetworkDefinition, connectionTimeout time.Duration, rpcCallTimeout time.Duration) (*EVMClient, error) {
	rpcURLs := make([]string, 0, 1+len(netDef.FallbackRPCURLs))
	if netDef.PrimaryRPCURL != "" {
		rpcURLs = append(rpcURLs, netDef.PrimaryRPCURL)
	}
	rpcURLs = append(rpcURLs, netDef.FallbackRPCURLs...)
	if len(rpcURLs) == 0 {
		return nil, fmt.Errorf("%w: no RPC URL configured for network %s", entity.ErrConfiguration, netDef.Identifier)
	}

	var lastErr error
	for _, rpcURL := range rpcURLs {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		client, err := ethclient.DialContext(ctx, rpcURL)
		cancel()

		if err == nil {
			return NewEVMClientWithCaller(netDef, client, rpcCallTimeout), nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}

	return nil, fmt.Errorf("%w: all RPC connection attempts failed for network %s: %w", entity.ErrUpstreamRPC, netDef.Name, lastErr)
}

// NewEVMClientWithCaller builds a client around an existing caller.
func NewEVMClientWithCaller(netDef entity.NetworkDefinition, caller ContractCaller, rpcCallTimeout time.Duration) *EVMClient {
	if rpcCallTimeout <= 0 {
		rpcCallTimeout = 10 * time.Second
	}
	return &EVMClient{caller: caller, netDef: netDef, rpcCallTimeout: rpcCallTimeout}
}

var _ port.EVMClient = (*EVMClient)(nil)

// TokenDecimals reads decimals() of an ERC-20 contract.
func (c *EVMClient) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := c.call(ctx, contracts.ERC20(), token, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals result type %T from %s", out[0], token.Hex())
	}
	return decimals, nil
}

// Allowance reads allowance(owner, spender) of an ERC-20 contract.
func (c *EVMClient) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	out, err := c.call(ctx, contracts.ERC20(), token, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	allowance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected allowance result type %T from %s", out[0], token.Hex())
	}
	return allowance, nil
}

// QuoteLayerZeroFee returns the native fee component of router.quoteLayerZeroFee for a plain swap.
func (c *EVMClient) QuoteLayerZeroFee(ctx context.Context, router common.Address, dstChainID uint16, toAddress []byte) (*big.Int, error) {
	out, err := c.call(ctx, contracts.StargateRouter(), router, "quoteLayerZeroFee",
		dstChainID, contracts.StargateFunctionSwapRemote, toAddress, []byte{}, contracts.EmptyLzTxParams())
	if err != nil {
		return nil, err
	}
	fee, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected quoteLayerZeroFee result type %T from %s", out[0], router.Hex())
	}
	return fee, nil
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

func (c *EVMClient) call(ctx context.Context, contractABI abi.ABI, to common.Address, method string, args ...any) ([]any, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	raw, err := c.caller.CallContract(rpcCallCtx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s on %s (%s): %w", entity.ErrUpstreamRPC, method, to.Hex(), c.netDef.Identifier, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty %s result from %s on %s, not a contract?", method, to.Hex(), c.netDef.Identifier)
	}

	out, err := contractABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result from %s: %w", method, to.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s unpack returned no data from %s", method, to.Hex())
	}
	return out, nil
}
