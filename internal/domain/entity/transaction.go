package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// BuildRequest is the body of a transaction build call.
type BuildRequest struct {
	FromChain string              `json:"fromChain" binding:"required"`
	ToChain   string              `json:"toChain" binding:"required"`
	Token     string              `json:"token"`
	Amount    decimal.NullDecimal `json:"amount"`

	// Recipient is the destination address of an EVM-origin transfer. Its presence
	// signals that the approval step has already been mined.
	Recipient string `json:"recipient,omitempty"`
	// Sender is the optional EVM wallet address, used to verify the allowance.
	Sender      string  `json:"sender,omitempty"`
	SlippageBps *uint32 `json:"slippageBps,omitempty" binding:"omitempty,lte=10000"`

	SenderPublicKey string `json:"senderPublicKey,omitempty"`
	SVMSender       string `json:"svmSender,omitempty"`
	EVMRecipient    string `json:"evmRecipient,omitempty"`
	// MessagePublicKey is the account the Wormhole core bridge posts the message to.
	// It must co-sign, so wallets that can add a second signer pass their own key here.
	MessagePublicKey string `json:"messagePublicKey,omitempty"`
}

// SolanaSender returns the Solana fee payer, accepting the legacy svmSender field.
func (r BuildRequest) SolanaSender() string {
	if r.SenderPublicKey != "" {
		return r.SenderPublicKey
	}
	return r.SVMSender
}

// EVMTransaction is an unsigned EVM call as expected by eth_sendTransaction.
type EVMTransaction struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

// UnsignedTx is the envelope returned to the wallet. Exactly one of EVM or Solana
// is meaningful, selected by ChainType. A Solana envelope with a nil payload means
// the builder is unavailable.
type UnsignedTx struct {
	ChainType     ChainFamily
	NeedsApproval bool
	EVM           *EVMTransaction
	Solana        *string
	Note          string
}

// NewEVMEnvelope wraps an unsigned EVM call.
func NewEVMEnvelope(tx EVMTransaction, needsApproval bool, note string) UnsignedTx {
	return UnsignedTx{ChainType: FamilyEVM, NeedsApproval: needsApproval, EVM: &tx, Note: note}
}

// NewSolanaEnvelope wraps a base64 serialized, unsigned versioned transaction.
func NewSolanaEnvelope(serialized string, note string) UnsignedTx {
	return UnsignedTx{ChainType: FamilySolana, Solana: &serialized, Note: note}
}

// UnavailableSolanaEnvelope is returned when the Solana builder cannot run.
func UnavailableSolanaEnvelope(note string) UnsignedTx {
	return UnsignedTx{ChainType: FamilySolana, Note: note}
}

// MarshalJSON renders the envelope in the wallet-facing wire format.
func (u UnsignedTx) MarshalJSON() ([]byte, error) {
	out := struct {
		ChainType     ChainFamily `json:"chainType"`
		NeedsApproval bool        `json:"needsApproval,omitempty"`
		Tx            any         `json:"tx"`
		Note          string      `json:"note,omitempty"`
	}{
		ChainType:     u.ChainType,
		NeedsApproval: u.NeedsApproval,
		Note:          u.Note,
	}
	switch {
	case u.ChainType == FamilyEVM && u.EVM != nil:
		out.Tx = u.EVM
	case u.ChainType == FamilySolana && u.Solana != nil:
		out.Tx = *u.Solana
	}
	return json.Marshal(out)
}
