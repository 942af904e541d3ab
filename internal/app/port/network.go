package port

import (
	"context"
	"math/big"

	"usdc_bridge/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// EVMClient defines the read-only calls the bridge needs from an EVM network.
type EVMClient interface {
	// TokenDecimals reads decimals() of an ERC-20 contract.
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)

	// Allowance reads allowance(owner, spender) of an ERC-20 contract.
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)

	// QuoteLayerZeroFee asks a Stargate router for the native messaging fee of a swap.
	QuoteLayerZeroFee(ctx context.Context, router common.Address, dstChainID uint16, toAddress []byte) (*big.Int, error)

	// Definition returns the network definition associated with this client.
	Definition() entity.NetworkDefinition
}

// SolanaClient defines the read-only calls the bridge needs from Solana.
type SolanaClient interface {
	// LatestBlockhash returns a recent finalized blockhash to anchor a transaction.
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all configured network definitions as a slice.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns a specific network definition by its identifier (case-insensitive).
	GetNetworkDefinitionByName(nameOrIdentifier string) (entity.NetworkDefinition, bool)
}

// BlockchainClientProvider defines the interface for providing blockchain clients.
type BlockchainClientProvider interface {
	GetEVMClient(networkDefinition entity.NetworkDefinition) (EVMClient, error)
	GetSolanaClient(networkDefinition entity.NetworkDefinition) (SolanaClient, error)
}
