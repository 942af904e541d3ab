// Package chain classifies chain identifiers into route families.
package chain

import (
	"fmt"
	"strings"

	"usdc_bridge/internal/domain/entity"
)

// DefaultEVMChains is the EVM set served when configuration adds nothing.
var DefaultEVMChains = []string{"ethereum", "bnb", "base", "polygon", "arbitrum", "optimism"} //nolint:gochecknoglobals

// Classifier maps chain identifiers to a ChainFamily. It is immutable after construction.
type Classifier struct {
	evm    map[string]struct{}
	solana string
}

// NewClassifier builds a classifier from an explicit EVM set and the Solana identifier.
func NewClassifier(evmChains []string, solanaChain string) *Classifier {
	c := &Classifier{
		evm:    make(map[string]struct{}, len(evmChains)),
		solana: normalize(solanaChain),
	}
	for _, id := range evmChains {
		if id = normalize(id); id != "" {
			c.evm[id] = struct{}{}
		}
	}
	return c
}

// NewClassifierFromNetworks builds a classifier from the default EVM set plus every
// configured network of the EVM family.
func NewClassifierFromNetworks(defs []entity.NetworkDefinition) *Classifier {
	evmChains := append([]string{}, DefaultEVMChains...)
	for _, d := range defs {
		if d.IsEVM() {
			evmChains = append(evmChains, d.Identifier)
		}
	}
	return NewClassifier(evmChains, entity.SolanaChainID)
}

// IsEVM reports whether id belongs to the configured EVM set.
func (c *Classifier) IsEVM(id string) bool {
	_, ok := c.evm[normalize(id)]
	return ok
}

// IsSolana reports whether id is the supported Solana identifier.
func (c *Classifier) IsSolana(id string) bool {
	id = normalize(id)
	return id != "" && id == c.solana
}

// Family resolves id to exactly one family or fails with ErrUnknownChain.
func (c *Classifier) Family(id string) (entity.ChainFamily, error) {
	switch {
	case c.IsSolana(id):
		return entity.FamilySolana, nil
	case c.IsEVM(id):
		return entity.FamilyEVM, nil
	default:
		return "", fmt.Errorf("%w: %q", entity.ErrUnknownChain, id)
	}
}

// SelectRoute returns FamilySolana iff at least one endpoint is Solana, FamilyEVM
// otherwise. Unknown endpoints are rejected instead of being treated as EVM.
func (c *Classifier) SelectRoute(from, to string) (entity.ChainFamily, error) {
	fromFamily, err := c.Family(from)
	if err != nil {
		return "", err
	}
	toFamily, err := c.Family(to)
	if err != nil {
		return "", err
	}
	if fromFamily == entity.FamilySolana || toFamily == entity.FamilySolana {
		return entity.FamilySolana, nil
	}
	return entity.FamilyEVM, nil
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
