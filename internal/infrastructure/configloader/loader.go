package configloader

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string  `yaml:"port"`
	ReadTimeoutSeconds  int     `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int     `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int     `yaml:"idleTimeoutSeconds"`
	RateLimitRPS        float64 `yaml:"rateLimitRps"` // <= 0 disables the limiter
	RateLimitBurst      int     `yaml:"rateLimitBurst"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// TracingConfig holds the optional OTLP exporter endpoint.
type TracingConfig struct {
	OTLPEndpoint string `yaml:"otlpEndpoint"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	RPCCallTimeoutSeconds    int `yaml:"rpc_call_timeout_seconds"`
	ConnectionTimeoutSeconds int `yaml:"connection_timeout_seconds"`
}

// BridgeConfig holds route-independent bridge parameters.
type BridgeConfig struct {
	// DefaultSlippageBps is nil when not configured; 0 is a valid setting.
	DefaultSlippageBps   *uint32 `yaml:"defaultSlippageBps"`
	DefaultTokenDecimals uint8   `yaml:"defaultTokenDecimals"`
	StargatePoolID       uint64  `yaml:"stargatePoolId"`
	// DefaultRouterAddress applies to EVM networks without their own router.
	DefaultRouterAddress string `yaml:"defaultRouterAddress"`
	// SolanaBuilderEnabled forces the Solana builder capability on or off. When unset
	// it is derived from the presence of a Solana RPC and token bridge program.
	SolanaBuilderEnabled *bool `yaml:"solanaBuilderEnabled"`
}

// NetworkNodeConfig overrides or adds a network definition. Empty fields keep the built-in value.
type NetworkNodeConfig struct {
	Name              string   `yaml:"name"` // e.g., "ethereum"
	Family            string   `yaml:"family"`
	ChainID           uint64   `yaml:"chainID"`
	RPCURL            string   `yaml:"rpcURL"`
	FallbackRPCURLs   []string `yaml:"fallbackRpcURLs"`
	USDCAddress       string   `yaml:"usdcAddress"`
	RouterAddress     string   `yaml:"routerAddress"`
	CoreBridgeAddress string   `yaml:"coreBridgeAddress"`
	LayerZeroChainID  uint16   `yaml:"layerZeroChainId"`
	WormholeChainID   uint16   `yaml:"wormholeChainId"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig        `yaml:"server"`
	Logging     LoggingConfig       `yaml:"logging"`
	Tracing     TracingConfig       `yaml:"tracing"`
	Performance PerformanceConfig   `yaml:"performance"`
	Bridge      BridgeConfig        `yaml:"bridge"`
	Networks    []NetworkNodeConfig `yaml:"networks"`
}

const defaultSlippageBps = 50

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads the YAML configuration file from the given path, applies the
// environment overlay and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup LookupFunc) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logrus.Warnf("Config file %s not found, using built-in networks and environment only", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	cfg.applyEnv(lookup)
	cfg.applyDefaults()

	logrus.Infof("Configuration loaded: %d network overrides, port %s", len(cfg.Networks), cfg.Server.Port)
	return &cfg, nil
}

// Network returns the override entry for name, creating it when absent.
func (c *Config) Network(name string) *NetworkNodeConfig {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range c.Networks {
		if strings.ToLower(c.Networks[i].Name) == name {
			return &c.Networks[i]
		}
	}
	c.Networks = append(c.Networks, NetworkNodeConfig{Name: name})
	return &c.Networks[len(c.Networks)-1]
}

// evmRPCChains lists the built-in EVM networks, whose RPC can be set through EVM_RPC_<CHAIN>.
var evmRPCChains = []string{"ethereum", "bnb", "base", "polygon", "arbitrum", "optimism", "avalanche"} //nolint:gochecknoglobals

// knownNetwork reports whether name is built in or declared under networks: in the YAML file.
func (c *Config) knownNetwork(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "solana" {
		return true
	}
	for _, n := range evmRPCChains {
		if n == name {
			return true
		}
	}
	for _, n := range c.Networks {
		if strings.ToLower(strings.TrimSpace(n.Name)) == name {
			return true
		}
	}
	return false
}

// envNetwork returns the entry an env map key may update, or nil for networks nobody declared.
// Env maps never add chains.
func (c *Config) envNetwork(key, name string) *NetworkNodeConfig {
	if !c.knownNetwork(name) {
		logrus.Warnf("Ignoring %s entry for unknown network %q; declare it under networks: with a family first", key, name)
		return nil
	}
	return c.Network(name)
}

func (c *Config) applyEnv(lookup LookupFunc) {
	if v, ok := lookup("PORT"); ok && v != "" {
		c.Server.Port = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup("OTEL_EXPORTER_OTLP_ENDPOINT"); ok {
		c.Tracing.OTLPEndpoint = v
	}

	names := append([]string{}, evmRPCChains...)
	for _, n := range c.Networks {
		names = append(names, strings.ToLower(n.Name))
	}
	for _, name := range names {
		if v, ok := lookup("EVM_RPC_" + strings.ToUpper(name)); ok && v != "" {
			c.Network(name).RPCURL = v
		}
	}

	if v, ok := lookup("SOLANA_RPC"); ok && v != "" {
		c.Network("solana").RPCURL = v
	}
	if v, ok := lookup("WORMHOLE_TOKEN_BRIDGE_ADDRESS"); ok && v != "" {
		c.Network("solana").RouterAddress = v
	}
	if v, ok := lookup("WORMHOLE_CORE_BRIDGE_ADDRESS"); ok && v != "" {
		c.Network("solana").CoreBridgeAddress = v
	}
	if v, ok := lookup("SOLANA_USDC_MINT"); ok && v != "" {
		c.Network("solana").USDCAddress = v
	}
	if v, ok := lookup("STARGATE_ROUTER_ADDRESS"); ok && v != "" {
		c.Bridge.DefaultRouterAddress = v
	}

	for name, id := range parseUint16Map(lookup, "CHAIN_IDS_JSON") {
		if n := c.envNetwork("CHAIN_IDS_JSON", name); n != nil {
			n.LayerZeroChainID = id
		}
	}
	for name, id := range parseUint16Map(lookup, "WORMHOLE_CHAIN_IDS_JSON") {
		if n := c.envNetwork("WORMHOLE_CHAIN_IDS_JSON", name); n != nil {
			n.WormholeChainID = id
		}
	}
	for name, addr := range parseStringMap(lookup, "USDC_ADDRESSES_JSON") {
		if n := c.envNetwork("USDC_ADDRESSES_JSON", name); n != nil {
			n.USDCAddress = addr
		}
	}
	for name, addr := range parseStringMap(lookup, "ROUTER_ADDRESSES_JSON") {
		if n := c.envNetwork("ROUTER_ADDRESSES_JSON", name); n != nil {
			n.RouterAddress = addr
		}
	}

	if v, ok := lookupUint(lookup, "DEFAULT_SLIPPAGE_BPS", 32); ok {
		bps := uint32(v)
		c.Bridge.DefaultSlippageBps = &bps
	}
	if v, ok := lookupUint(lookup, "DEFAULT_TOKEN_DECIMALS", 8); ok {
		c.Bridge.DefaultTokenDecimals = uint8(v)
	}
	if v, ok := lookupUint(lookup, "RPC_TIMEOUT_SECONDS", 32); ok {
		c.Performance.RPCCallTimeoutSeconds = int(v)
	}
	if v, ok := lookup("RATE_LIMIT_RPS"); ok {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.Server.RateLimitRPS = rps
		}
	}
	if v, ok := lookup("SOLANA_BUILDER_ENABLED"); ok {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Bridge.SolanaBuilderEnabled = &enabled
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8787"
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		c.Server.ReadTimeoutSeconds = 10
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		c.Server.WriteTimeoutSeconds = 30
	}
	if c.Server.IdleTimeoutSeconds <= 0 {
		c.Server.IdleTimeoutSeconds = 60
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = int(c.Server.RateLimitRPS*2) + 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.RPCCallTimeoutSeconds <= 0 {
		c.Performance.RPCCallTimeoutSeconds = 10
	}
	if c.Performance.ConnectionTimeoutSeconds <= 0 {
		c.Performance.ConnectionTimeoutSeconds = 10
	}
	if c.Bridge.DefaultSlippageBps == nil {
		bps := uint32(defaultSlippageBps)
		c.Bridge.DefaultSlippageBps = &bps
		logrus.Infof("bridge.defaultSlippageBps not set, defaulting to %d", bps)
	}
	if *c.Bridge.DefaultSlippageBps > 10000 {
		logrus.Warnf("bridge.defaultSlippageBps %d exceeds 10000, clamping", *c.Bridge.DefaultSlippageBps)
		*c.Bridge.DefaultSlippageBps = 10000
	}
	if c.Bridge.DefaultTokenDecimals == 0 {
		c.Bridge.DefaultTokenDecimals = 6
	}
	if c.Bridge.StargatePoolID == 0 {
		c.Bridge.StargatePoolID = 1
	}
}

// parseUint16Map decodes a JSON object env var. Malformed input degrades to an empty map.
func parseUint16Map(lookup LookupFunc, key string) map[string]uint16 {
	out := map[string]uint16{}
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		logrus.Warnf("Ignoring malformed %s: %v", key, err)
		return map[string]uint16{}
	}
	return out
}

// parseStringMap decodes a JSON object env var. Malformed input degrades to an empty map.
func parseStringMap(lookup LookupFunc, key string) map[string]string {
	out := map[string]string{}
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		logrus.Warnf("Ignoring malformed %s: %v", key, err)
		return map[string]string{}
	}
	return out
}

func lookupUint(lookup LookupFunc, key string, bitSize int) (uint64, bool) {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, bitSize)
	if err != nil {
		logrus.Warnf("Ignoring malformed %s=%q: %v", key, raw, err)
		return 0, false
	}
	return v, true
}
