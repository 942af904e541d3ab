package client

import (
	"fmt"
	"sync"
	"time"

	"usdc_bridge/internal/app/port"
	"usdc_bridge/internal/domain/entity"
	"usdc_bridge/internal/infrastructure/configloader"

	"github.com/patrickmn/go-cache"
)

// clientProvider implements the port.BlockchainClientProvider interface.
type clientProvider struct {
	clients           *cache.Cache
	mu                sync.Mutex
	logger            port.Logger
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
}

// NewClientProvider creates a provider that dials lazily and caches one client per network.
func NewClientProvider(cfg *configloader.Config, log port.Logger) port.BlockchainClientProvider {
	return &clientProvider{
		clients:           cache.New(cache.NoExpiration, 0),
		logger:            log,
		connectionTimeout: time.Duration(cfg.Performance.ConnectionTimeoutSeconds) * time.Second,
		rpcCallTimeout:    time.Duration(cfg.Performance.RPCCallTimeoutSeconds) * time.Second,
	}
}

// GetEVMClient retrieves an EVM client for the given network definition.
// It caches clients to avoid reconnecting repeatedly.
func (p *clientProvider) GetEVMClient(netDef entity.NetworkDefinition) (port.EVMClient, error) {
	if !netDef.IsEVM() {
		return nil, fmt.Errorf("%w: network %s is not an EVM network", entity.ErrConfiguration, netDef.Identifier)
	}
	c, err := p.getOrCreate("evm:"+netDef.Identifier, func() (any, error) {
		return NewEVMClient(netDef, p.connectionTimeout, p.rpcCallTimeout)
	})
	if err != nil {
		return nil, err
	}
	return c.(port.EVMClient), nil
}

// GetSolanaClient retrieves a Solana client for the given network definition.
func (p *clientProvider) GetSolanaClient(netDef entity.NetworkDefinition) (port.SolanaClient, error) {
	if netDef.Family != entity.FamilySolana {
		return nil, fmt.Errorf("%w: network %s is not a Solana network", entity.ErrConfiguration, netDef.Identifier)
	}
	c, err := p.getOrCreate("svm:"+netDef.Identifier, func() (any, error) {
		return NewSolanaClient(netDef, p.rpcCallTimeout)
	})
	if err != nil {
		return nil, err
	}
	return c.(port.SolanaClient), nil
}

func (p *clientProvider) getOrCreate(key string, create func() (any, error)) (any, error) {
	if c, found := p.clients.Get(key); found {
		return c, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, found := p.clients.Get(key); found {
		return c, nil
	}

	p.logger.Info("Creating new blockchain client", "key", key)
	c, err := create()
	if err != nil {
		p.logger.Error("Failed to create blockchain client", "key", key, "error", err)
		return nil, err
	}

	p.clients.Set(key, c, cache.NoExpiration)
	p.logger.Debug("Cached new blockchain client", "key", key)
	return c, nil
}
