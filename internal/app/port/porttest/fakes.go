// Package porttest provides in-memory implementations of the ports for tests.
package porttest

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"usdc_bridge/internal/app/port"
	"usdc_bridge/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"
)

// StaticNetworks is a port.NetworkDefinitionProvider over a fixed slice.
type StaticNetworks []entity.NetworkDefinition

// GetAllNetworkDefinitions returns the slice.
func (s StaticNetworks) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	return append([]entity.NetworkDefinition{}, s...)
}

// GetNetworkDefinitionByName looks the identifier up, ignoring case.
func (s StaticNetworks) GetNetworkDefinitionByName(id string) (entity.NetworkDefinition, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, d := range s {
		if d.Identifier == id {
			return d, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// Networks returns the usual test set: ethereum, base, bnb and solana.
func Networks() StaticNetworks {
	return StaticNetworks{
		{
			Identifier: "ethereum", Name: "Ethereum", Family: entity.FamilyEVM, ChainID: 1,
			USDCAddress:      "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
			RouterAddress:    "0x8731d54E9D02c286767d56ac03e8037C07e01e98",
			LayerZeroChainID: 101, WormholeChainID: 2,
		},
		{
			Identifier: "base", Name: "Base", Family: entity.FamilyEVM, ChainID: 8453,
			USDCAddress:      "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
			RouterAddress:    "0x45f1A95A4D3f3836523F5c83673c797f4d4d263B",
			LayerZeroChainID: 184, WormholeChainID: 30,
		},
		{
			Identifier: "bnb", Name: "BNB", Family: entity.FamilyEVM, ChainID: 56,
			USDCAddress: "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d",
		},
		{
			Identifier: "solana", Name: "Solana", Family: entity.FamilySolana,
			PrimaryRPCURL:     "http://127.0.0.1:8899",
			USDCAddress:       "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			RouterAddress:     "wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb",
			CoreBridgeAddress: "worm2ZoG2kUd4vFXhvjh93UUH596ayRfgQ2MgjNMTth",
			WormholeChainID:   1,
		},
	}
}

// MockEVMClient is a testify mock of port.EVMClient.
type MockEVMClient struct {
	mock.Mock
	Def entity.NetworkDefinition
}

// TokenDecimals implements port.EVMClient.
func (m *MockEVMClient) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uint8), args.Error(1)
}

// Allowance implements port.EVMClient.
func (m *MockEVMClient) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	args := m.Called(ctx, token, owner, spender)
	v, _ := args.Get(0).(*big.Int)
	return v, args.Error(1)
}

// QuoteLayerZeroFee implements port.EVMClient.
func (m *MockEVMClient) QuoteLayerZeroFee(ctx context.Context, router common.Address, dstChainID uint16, toAddress []byte) (*big.Int, error) {
	args := m.Called(ctx, router, dstChainID, toAddress)
	v, _ := args.Get(0).(*big.Int)
	return v, args.Error(1)
}

// Definition implements port.EVMClient.
func (m *MockEVMClient) Definition() entity.NetworkDefinition {
	return m.Def
}

// StaticSolanaClient always answers with Hash, or Err when set.
type StaticSolanaClient struct {
	Hash  solana.Hash
	Err   error
	Calls int
}

// LatestBlockhash implements port.SolanaClient.
func (c *StaticSolanaClient) LatestBlockhash(context.Context) (solana.Hash, error) {
	c.Calls++
	return c.Hash, c.Err
}

// ClientProvider hands out preset clients keyed by network identifier.
type ClientProvider struct {
	EVM    map[string]port.EVMClient
	Solana port.SolanaClient
}

// GetEVMClient implements port.BlockchainClientProvider.
func (p *ClientProvider) GetEVMClient(def entity.NetworkDefinition) (port.EVMClient, error) {
	if c, ok := p.EVM[def.Identifier]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: no client for %s", entity.ErrUpstreamRPC, def.Identifier)
}

// GetSolanaClient implements port.BlockchainClientProvider.
func (p *ClientProvider) GetSolanaClient(def entity.NetworkDefinition) (port.SolanaClient, error) {
	if p.Solana == nil {
		return nil, fmt.Errorf("%w: no client for %s", entity.ErrUpstreamRPC, def.Identifier)
	}
	return p.Solana, nil
}
