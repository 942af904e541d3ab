package entity

// ChainFamily is the closed set of route families the bridge can serve.
type ChainFamily string

const (
	// FamilyEVM covers every EVM-compatible chain (Stargate route).
	FamilyEVM ChainFamily = "evm"
	// FamilySolana covers Solana (Wormhole route).
	FamilySolana ChainFamily = "svm"
)

// SolanaChainID is the single supported non-EVM chain identifier.
const SolanaChainID = "solana"

// ZeroAddress represents the Ethereum zero address.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

func (f ChainFamily) String() string {
	return string(f)
}
