package client

import (
	"context"
	"fmt"
	"time"

	"usdc_bridge/internal/app/port"
	"usdc_bridge/internal/domain/entity"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// BlockhashGetter is the subset of the solana-go RPC client used by SolanaClient.
type BlockhashGetter interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

// SolanaClient implements port.SolanaClient on top of the solana-go JSON-RPC client.
type SolanaClient struct {
	rpc            BlockhashGetter
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
}

// NewSolanaClient creates a client for the primary RPC URL of netDef. No network call is made.
func NewSolanaClient(netDef entity.NetworkDefinition, rpcCallTimeout time.Duration) (*SolanaClient, error) {
	if netDef.PrimaryRPCURL == "" {
		return nil, fmt.Errorf("%w: no RPC URL configured for network %s", entity.ErrConfiguration, netDef.Identifier)
	}
	return NewSolanaClientWithRPC(netDef, rpc.New(netDef.PrimaryRPCURL), rpcCallTimeout), nil
}

// NewSolanaClientWithRPC builds a client around an existing RPC implementation.
func NewSolanaClientWithRPC(netDef entity.NetworkDefinition, getter BlockhashGetter, rpcCallTimeout time.Duration) *SolanaClient {
	if rpcCallTimeout <= 0 {
		rpcCallTimeout = 10 * time.Second
	}
	return &SolanaClient{rpc: getter, netDef: netDef, rpcCallTimeout: rpcCallTimeout}
}

var _ port.SolanaClient = (*SolanaClient)(nil)

// LatestBlockhash returns the latest finalized blockhash.
func (c *SolanaClient) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	res, err := c.rpc.GetLatestBlockhash(rpcCallCtx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("%w: getLatestBlockhash on %s: %w", entity.ErrUpstreamRPC, c.netDef.Identifier, err)
	}
	if res == nil || res.Value == nil {
		return solana.Hash{}, fmt.Errorf("%w: empty getLatestBlockhash result on %s", entity.ErrUpstreamRPC, c.netDef.Identifier)
	}
	return res.Value.Blockhash, nil
}
