package networkdefinition

import (
	"fmt"
	"strings"

	"usdc_bridge/internal/app/port"
	"usdc_bridge/internal/domain/entity"
	"usdc_bridge/internal/infrastructure/configloader"
)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger         port.Logger
	allNetworkDefs map[string]entity.NetworkDefinition
	order          []string
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "ethereum",
		Family:           entity.FamilyEVM,
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/eth", "https://ethereum.publicnode.com"},
		BlockExplorerURL: "https://etherscan.io",
		USDCAddress:      "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		RouterAddress:    "0x8731d54E9D02c286767d56ac03e8037C07e01e98",
		LayerZeroChainID: 101,
		WormholeChainID:  2,
	}
	BNB = entity.NetworkDefinition{
		ChainID:          56,
		Name:             "BNB Smart Chain",
		Identifier:       "bnb",
		Family:           entity.FamilyEVM,
		NativeSymbol:     "BNB",
		PrimaryRPCURL:    "https://1rpc.io/bnb",
		FallbackRPCURLs:  []string{"https://bsc-dataseed2.binance.org/", "https://bsc.publicnode.com"},
		BlockExplorerURL: "https://bscscan.com",
		USDCAddress:      "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d", // 18 decimals on BSC
		RouterAddress:    "0x4a364f8c717cAAD9A442737Eb7b8A55cc6cf18D8",
		LayerZeroChainID: 102,
		WormholeChainID:  4,
	}
	Polygon = entity.NetworkDefinition{
		ChainID:          137,
		Name:             "Polygon PoS",
		Identifier:       "polygon",
		Family:           entity.FamilyEVM,
		NativeSymbol:     "POL",
		PrimaryRPCURL:    "https://polygon-rpc.com/",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/polygon", "https://polygon.publicnode.com"},
		BlockExplorerURL: "https://polygonscan.com",
		USDCAddress:      "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359",
		RouterAddress:    "0x45A01E4e04F14f7A4a6702c74187c5F6222033cd",
		LayerZeroChainID: 109,
		WormholeChainID:  5,
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:          42161,
		Name:             "Arbitrum One",
		Identifier:       "arbitrum",
		Family:           entity.FamilyEVM,
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://arb1.arbitrum.io/rpc",
		FallbackRPCURLs:  []string{"https://arbitrum.llamarpc.com", "https://arbitrum.publicnode.com"},
		BlockExplorerURL: "https://arbiscan.io",
		USDCAddress:      "0xaf88d065e77c8cC2239327C5EDb3A432268e5831",
		RouterAddress:    "0x53Bf833A5d6c4ddA888F69c22C88C9f356a41614",
		LayerZeroChainID: 110,
		WormholeChainID:  23,
	}
	Avalanche = entity.NetworkDefinition{
		ChainID:          43114,
		Name:             "Avalanche C-Chain",
		Identifier:       "avalanche",
		Family:           entity.FamilyEVM,
		NativeSymbol:     "AVAX",
		PrimaryRPCURL:    "https://api.avax.network/ext/bc/C/rpc",
		FallbackRPCURLs:  []string{"https://avalanche.public-rpc.com", "https://rpc.ankr.com/avalanche"},
		BlockExplorerURL: "https://snowtrace.io",
		USDCAddress:      "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E",
		RouterAddress:    "0x45A01E4e04F14f7A4a6702c74187c5F6222033cd",
		LayerZeroChainID: 106,
		WormholeChainID:  6,
	}
	Base = entity.NetworkDefinition{
		ChainID:          8453,
		Name:             "Base Mainnet",
		Identifier:       "base",
		Family:           entity.FamilyEVM,
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://1rpc.io/base",
		FallbackRPCURLs:  []string{"https://base.publicnode.com", "https://base.llamarpc.com"},
		BlockExplorerURL: "https://basescan.org",
		USDCAddress:      "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		RouterAddress:    "0x45f1A95A4D3f3836523F5c83673c797f4d4d263B",
		LayerZeroChainID: 184,
		WormholeChainID:  30,
	}
	Optimism = entity.NetworkDefinition{
		ChainID:          10,
		Name:             "OP Mainnet",
		Identifier:       "optimism",
		Family:           entity.FamilyEVM,
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://op-pokt.nodies.app",
		FallbackRPCURLs:  []string{"https://optimism.publicnode.com", "https://rpc.ankr.com/optimism"},
		BlockExplorerURL: "https://optimistic.etherscan.io",
		USDCAddress:      "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85",
		RouterAddress:    "0xB0D502E938ed5f4df2E681fE6E419ff29631d62b",
		LayerZeroChainID: 111,
		WormholeChainID:  24,
	}
	Solana = entity.NetworkDefinition{
		Name:              "Solana Mainnet Beta",
		Identifier:        entity.SolanaChainID,
		Family:            entity.FamilySolana,
		NativeSymbol:      "SOL",
		PrimaryRPCURL:     "https://api.mainnet-beta.solana.com",
		BlockExplorerURL:  "https://solscan.io",
		USDCAddress:       "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		RouterAddress:     "wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb",
		CoreBridgeAddress: "worm2ZoG2kUd4vFXhvjh93UUH596ayRfgQ2MgjNMTth",
		WormholeChainID:   1,
	}
)

// knownDefinitions lists the built-in networks in presentation order.
var knownDefinitions = []entity.NetworkDefinition{Ethereum, BNB, Base, Polygon, Arbitrum, Optimism, Avalanche, Solana} //nolint:gochecknoglobals

// NewNetworkDefinitionProvider creates a NetworkDefinitionProvider from the built-in
// networks, overlaid with the entries of cfg.Networks. An entry for an unknown network
// is added only when it names its family; otherwise it is skipped so the chain stays unknown.
func NewNetworkDefinitionProvider(log port.Logger, cfg *configloader.Config) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:         log,
		allNetworkDefs: make(map[string]entity.NetworkDefinition, len(knownDefinitions)),
	}
	for _, def := range knownDefinitions {
		p.add(cloneDefinition(def))
	}

	if cfg != nil {
		for _, override := range cfg.Networks {
			p.applyOverride(override)
		}
		if cfg.Bridge.DefaultRouterAddress != "" {
			for _, id := range p.order {
				def := p.allNetworkDefs[id]
				if def.IsEVM() && def.RouterAddress == "" {
					def.RouterAddress = cfg.Bridge.DefaultRouterAddress
					p.allNetworkDefs[id] = def
				}
			}
		}
	}

	p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized. Networks: %d", len(p.order)))
	for _, id := range p.order {
		def := p.allNetworkDefs[id]
		p.logger.Debug(fmt.Sprintf("  - Network: %s (ID: %s, family: %s, LZ: %d, Wormhole: %d)",
			def.Name, def.Identifier, def.Family, def.LayerZeroChainID, def.WormholeChainID))
	}
	return p
}

func (p *NetworkDefinitionProvider) add(def entity.NetworkDefinition) {
	id := strings.ToLower(def.Identifier)
	if _, exists := p.allNetworkDefs[id]; !exists {
		p.order = append(p.order, id)
	}
	p.allNetworkDefs[id] = def
}

func (p *NetworkDefinitionProvider) applyOverride(o configloader.NetworkNodeConfig) {
	id := strings.ToLower(strings.TrimSpace(o.Name))
	if id == "" {
		p.logger.Warn("Skipping network override without a name")
		return
	}

	family, familyOK := parseFamily(o.Family)
	if !familyOK {
		p.logger.Warn(fmt.Sprintf("Ignoring unknown family '%s' for network '%s'.", o.Family, id))
	}

	def, known := p.allNetworkDefs[id]
	if !known {
		if family == "" {
			p.logger.Warn(fmt.Sprintf("Skipping network '%s': not built in and no family configured.", id))
			return
		}
		def = entity.NetworkDefinition{Identifier: id, Name: id}
		p.logger.Info(fmt.Sprintf("Adding network '%s' (%s) from configuration.", id, family))
	}
	if family != "" {
		def.Family = family
	}

	if o.ChainID != 0 {
		def.ChainID = o.ChainID
	}
	if o.RPCURL != "" {
		def.PrimaryRPCURL = o.RPCURL
	}
	if len(o.FallbackRPCURLs) > 0 {
		def.FallbackRPCURLs = append([]string{}, o.FallbackRPCURLs...)
	}
	if o.USDCAddress != "" {
		def.USDCAddress = o.USDCAddress
	}
	if o.RouterAddress != "" {
		def.RouterAddress = o.RouterAddress
	}
	if o.CoreBridgeAddress != "" {
		def.CoreBridgeAddress = o.CoreBridgeAddress
	}
	if o.LayerZeroChainID != 0 {
		def.LayerZeroChainID = o.LayerZeroChainID
	}
	if o.WormholeChainID != 0 {
		def.WormholeChainID = o.WormholeChainID
	}

	p.add(def)
}

// parseFamily maps a configured family name. An empty name yields "" and true.
func parseFamily(raw string) (entity.ChainFamily, bool) {
	switch f := entity.ChainFamily(strings.ToLower(strings.TrimSpace(raw))); f {
	case entity.FamilyEVM, entity.FamilySolana:
		return f, true
	case "solana":
		return entity.FamilySolana, true
	case "":
		return "", true
	default:
		return "", false
	}
}

func cloneDefinition(def entity.NetworkDefinition) entity.NetworkDefinition {
	def.FallbackRPCURLs = append([]string{}, def.FallbackRPCURLs...)
	return def
}

// GetAllNetworkDefinitions returns every network definition in presentation order.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.order))
	for _, id := range p.order {
		defs = append(defs, cloneDefinition(p.allNetworkDefs[id]))
	}
	return defs
}

// GetNetworkDefinitionByName returns a specific network definition by its identifier, ignoring case.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.allNetworkDefs[strings.ToLower(strings.TrimSpace(identifier))]
	if !ok {
		return entity.NetworkDefinition{}, false
	}
	return cloneDefinition(def), true
}
