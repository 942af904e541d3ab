package entity

// NetworkDefinition holds the configuration for a specific blockchain network.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	ChainID          uint64      `json:"chainId" yaml:"chainId"`
	Name             string      `json:"name" yaml:"name"`
	Identifier       string      `json:"identifier" yaml:"identifier"` // e.g. "ethereum", "base", "solana"
	Family           ChainFamily `json:"family" yaml:"family"`
	NativeSymbol     string      `json:"nativeSymbol" yaml:"nativeSymbol"`
	PrimaryRPCURL    string      `json:"-" yaml:"primaryRpcUrl"`
	FallbackRPCURLs  []string    `json:"-" yaml:"fallbackRpcUrls"`
	BlockExplorerURL string      `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`

	// USDCAddress is the ERC-20 contract on EVM networks and the SPL mint on Solana.
	USDCAddress string `json:"usdcAddress" yaml:"usdcAddress"`
	// RouterAddress is the Stargate router on EVM networks and the Wormhole token bridge program on Solana.
	RouterAddress string `json:"routerAddress,omitempty" yaml:"routerAddress"`
	// CoreBridgeAddress is the Wormhole core bridge program. Solana only.
	CoreBridgeAddress string `json:"coreBridgeAddress,omitempty" yaml:"coreBridgeAddress,omitempty"`

	LayerZeroChainID uint16 `json:"layerZeroChainId,omitempty" yaml:"layerZeroChainId"`
	WormholeChainID  uint16 `json:"wormholeChainId,omitempty" yaml:"wormholeChainId"`
}

// IsEVM reports whether the network belongs to the EVM family.
func (d NetworkDefinition) IsEVM() bool {
	return d.Family == FamilyEVM
}
