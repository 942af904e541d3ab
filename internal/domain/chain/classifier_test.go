package chain

import (
	"testing"

	"usdc_bridge/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_IsEVM(t *testing.T) {
	c := NewClassifierFromNetworks(nil)

	for _, id := range []string{"ethereum", "BASE", " Polygon ", "bnb", "arbitrum", "optimism"} {
		assert.True(t, c.IsEVM(id), id)
	}
	assert.False(t, c.IsEVM("solana"))
	assert.False(t, c.IsEVM("cosmoshub"))
	assert.False(t, c.IsEVM(""))
}

func TestClassifier_IsSolana(t *testing.T) {
	c := NewClassifierFromNetworks(nil)

	assert.True(t, c.IsSolana("solana"))
	assert.True(t, c.IsSolana("SoLaNa"))
	assert.False(t, c.IsSolana("ethereum"))
	assert.False(t, c.IsSolana(""))
}

func TestClassifier_ConfiguredNetworksExtendEVMSet(t *testing.T) {
	c := NewClassifierFromNetworks([]entity.NetworkDefinition{
		{Identifier: "avalanche", Family: entity.FamilyEVM},
		{Identifier: "solana", Family: entity.FamilySolana},
	})

	assert.True(t, c.IsEVM("avalanche"))
	assert.False(t, c.IsEVM("solana"))
}

func TestClassifier_FamilyFailsClosed(t *testing.T) {
	c := NewClassifierFromNetworks(nil)

	_, err := c.Family("dogechain")
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrUnknownChain)
}

func TestClassifier_SelectRoute(t *testing.T) {
	c := NewClassifierFromNetworks(nil)

	tests := []struct {
		from, to string
		want     entity.ChainFamily
	}{
		{"base", "ethereum", entity.FamilyEVM},
		{"base", "solana", entity.FamilySolana},
		{"solana", "base", entity.FamilySolana},
		{"SOLANA", "arbitrum", entity.FamilySolana},
		{"solana", "solana", entity.FamilySolana},
		{"polygon", "optimism", entity.FamilyEVM},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			got, err := c.SelectRoute(tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			reversed, err := c.SelectRoute(tt.to, tt.from)
			require.NoError(t, err)
			assert.Equal(t, got, reversed, "route selection must be commutative")
		})
	}
}

func TestClassifier_SelectRouteRejectsUnknown(t *testing.T) {
	c := NewClassifierFromNetworks(nil)

	_, err := c.SelectRoute("base", "unknownchain")
	assert.ErrorIs(t, err, entity.ErrUnknownChain)

	_, err = c.SelectRoute("", "solana")
	assert.ErrorIs(t, err, entity.ErrUnknownChain)
}
