// Package wormhole quotes Solana routes and builds unsigned Solana to EVM transfers
// through the Wormhole token bridge.
package wormhole

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"usdc_bridge/internal/app/adapter"
	"usdc_bridge/internal/app/port"
	"usdc_bridge/internal/domain/chain"
	"usdc_bridge/internal/domain/entity"
	"usdc_bridge/internal/pkg/utils"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/shopspring/decimal"
)

// RouteName is the route reported in quotes.
const RouteName = "Wormhole"

// usdcDecimals is the decimal count of the USDC mint on Solana.
const usdcDecimals = 6

const (
	noteUnavailable = "Solana builder is not active: configure SOLANA_RPC and WORMHOLE_TOKEN_BRIDGE_ADDRESS and restart."
	noteReady       = "Unsigned Wormhole transfer (approve + transfer_native). Sign with the sender wallet and the messagePublicKey account before sending."
	noteGenerated   = "Unsigned Wormhole transfer (approve + transfer_native). The message account was generated and its key discarded; pass messagePublicKey with a key your wallet can co-sign to submit it."
)

// Schedule is the Wormhole pricing: 0.20% fee with a 0.35 floor, rate 0.9985.
var Schedule = adapter.FeeSchedule{ //nolint:gochecknoglobals
	Route:    RouteName,
	Family:   entity.FamilySolana,
	Rate:     decimal.RequireFromString("0.9985"),
	FeeFloor: decimal.RequireFromString("0.35"),
	FeeRate:  decimal.RequireFromString("0.0020"),
	ETA:      "~4–9 min",
}

// Options configures the adapter.
type Options struct {
	// Enabled is the builder capability, resolved once at startup.
	Enabled bool
	// Nonce overrides the random message nonce source.
	Nonce func() (uint32, error)
	// MessageAccount overrides the fresh message account generator.
	MessageAccount func() (solana.PublicKey, error)
}

// BuilderEnabled resolves the capability flag: override wins, otherwise the builder
// runs when the Solana network has an RPC URL and a token bridge program.
func BuilderEnabled(solanaDef entity.NetworkDefinition, found bool, override *bool) bool {
	if override != nil {
		return *override
	}
	return found && solanaDef.PrimaryRPCURL != "" && solanaDef.RouterAddress != ""
}

// Adapter implements port.RouteAdapter for the Solana family.
type Adapter struct {
	networks   port.NetworkDefinitionProvider
	clients    port.BlockchainClientProvider
	classifier *chain.Classifier
	opts       Options
	logger     port.Logger
}

// NewAdapter creates a Wormhole adapter.
func NewAdapter(
	np port.NetworkDefinitionProvider,
	cp port.BlockchainClientProvider,
	classifier *chain.Classifier,
	opts Options,
	l port.Logger,
) *Adapter {
	if opts.Nonce == nil {
		opts.Nonce = randomNonce
	}
	if opts.MessageAccount == nil {
		opts.MessageAccount = freshAccount
	}
	return &Adapter{networks: np, clients: cp, classifier: classifier, opts: opts, logger: l}
}

var _ port.RouteAdapter = (*Adapter)(nil)

// Family returns entity.FamilySolana.
func (a *Adapter) Family() entity.ChainFamily {
	return entity.FamilySolana
}

// Quote estimates a transfer with at least one Solana endpoint. No network call is made.
func (a *Adapter) Quote(req entity.QuoteRequest) (entity.Quote, error) {
	if !a.classifier.IsSolana(req.FromChain) && !a.classifier.IsSolana(req.ToChain) {
		return entity.Quote{}, fmt.Errorf("%w: %s needs a Solana endpoint, got %s -> %s",
			entity.ErrInvalidRoute, RouteName, req.FromChain, req.ToChain)
	}
	return Schedule.Estimate(req.Amount), nil
}

// BuildTransfer assembles an unsigned v0 transaction moving USDC from Solana to an EVM chain.
func (a *Adapter) BuildTransfer(ctx context.Context, req entity.BuildRequest) (entity.UnsignedTx, error) {
	if !a.opts.Enabled {
		a.logger.Info("Returning Solana envelope without transaction",
			"from", req.FromChain, "to", req.ToChain,
			"error", fmt.Errorf("%w: Solana RPC or token bridge program not configured", entity.ErrBuilderUnavailable))
		return entity.UnavailableSolanaEnvelope(noteUnavailable), nil
	}

	if !a.classifier.IsSolana(req.FromChain) {
		return entity.UnsignedTx{}, fmt.Errorf("%w: %s builds Solana to EVM transfers only; use the EVM adapter for %s -> %s",
			entity.ErrUnsupportedDirection, RouteName, req.FromChain, req.ToChain)
	}
	if a.classifier.IsSolana(req.ToChain) {
		return entity.UnsignedTx{}, fmt.Errorf("%w: Solana to Solana is not a bridge transfer", entity.ErrUnsupportedDirection)
	}

	senderRaw := req.SolanaSender()
	recipientRaw := req.EVMRecipient
	if recipientRaw == "" {
		recipientRaw = req.Recipient
	}
	if senderRaw == "" || recipientRaw == "" {
		return entity.UnsignedTx{}, fmt.Errorf("%w: senderPublicKey and evmRecipient are required", entity.ErrMissingParameter)
	}
	sender, err := solana.PublicKeyFromBase58(senderRaw)
	if err != nil {
		return entity.UnsignedTx{}, fmt.Errorf("%w: senderPublicKey %q: %w", entity.ErrInvalidParameter, senderRaw, err)
	}
	target, err := EncodeEVMAddress(recipientRaw)
	if err != nil {
		return entity.UnsignedTx{}, err
	}
	if !req.Amount.Valid {
		return entity.UnsignedTx{}, fmt.Errorf("%w: amount", entity.ErrMissingParameter)
	}
	amount := utils.ParseUnits(req.Amount.Decimal, usdcDecimals)
	if amount.Sign() <= 0 || !amount.IsUint64() {
		return entity.UnsignedTx{}, fmt.Errorf("%w: amount %s is out of range", entity.ErrInvalidParameter, req.Amount.Decimal)
	}

	toDef, ok := a.networks.GetNetworkDefinitionByName(req.ToChain)
	if !ok {
		return entity.UnsignedTx{}, fmt.Errorf("%w: %q", entity.ErrUnknownChain, req.ToChain)
	}
	if toDef.WormholeChainID == 0 {
		return entity.UnsignedTx{}, fmt.Errorf("%w: no Wormhole chain id configured for %s", entity.ErrConfiguration, toDef.Identifier)
	}

	solDef, ok := a.networks.GetNetworkDefinitionByName(req.FromChain)
	if !ok {
		return entity.UnsignedTx{}, fmt.Errorf("%w: %q", entity.ErrUnknownChain, req.FromChain)
	}
	programs, err := resolvePrograms(solDef)
	if err != nil {
		return entity.UnsignedTx{}, err
	}

	sourceATA, _, err := solana.FindAssociatedTokenAddress(sender, programs.mint)
	if err != nil {
		return entity.UnsignedTx{}, fmt.Errorf("failed to derive associated token account: %w", err)
	}
	accounts, err := DeriveBridgeAccounts(programs.tokenBridge, programs.coreBridge, programs.mint)
	if err != nil {
		return entity.UnsignedTx{}, err
	}

	nonce, err := a.opts.Nonce()
	if err != nil {
		return entity.UnsignedTx{}, fmt.Errorf("failed to generate nonce: %w", err)
	}
	message, err := a.messageAccount(req.MessagePublicKey)
	if err != nil {
		return entity.UnsignedTx{}, err
	}

	approveIx, err := token.NewApproveInstruction(
		amount.Uint64(), sourceATA, accounts.AuthoritySigner, sender, nil,
	).ValidateAndBuild()
	if err != nil {
		return entity.UnsignedTx{}, fmt.Errorf("failed to build SPL approve: %w", err)
	}
	transferIx, err := NewTransferNativeInstruction(
		programs.tokenBridge, programs.coreBridge, accounts,
		sender, sourceATA, programs.mint, message,
		TransferNativeArgs{
			Nonce:       nonce,
			Amount:      amount.Uint64(),
			TargetAddr:  target,
			TargetChain: toDef.WormholeChainID,
		},
	)
	if err != nil {
		return entity.UnsignedTx{}, err
	}

	client, err := a.clients.GetSolanaClient(solDef)
	if err != nil {
		return entity.UnsignedTx{}, err
	}
	blockhash, err := client.LatestBlockhash(ctx)
	if err != nil {
		return entity.UnsignedTx{}, err
	}

	serialized, err := serializeUnsigned([]solana.Instruction{approveIx, transferIx}, blockhash, sender)
	if err != nil {
		return entity.UnsignedTx{}, err
	}

	a.logger.Debug("Built Wormhole transfer",
		"to", toDef.Identifier, "amount", amount.String(), "nonce", nonce, "message", message.String())

	note := noteReady
	if req.MessagePublicKey == "" {
		note = noteGenerated
	}
	return entity.NewSolanaEnvelope(serialized, note), nil
}

func (a *Adapter) messageAccount(raw string) (solana.PublicKey, error) {
	if raw != "" {
		pk, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("%w: messagePublicKey %q: %w", entity.ErrInvalidParameter, raw, err)
		}
		return pk, nil
	}
	pk, err := a.opts.MessageAccount()
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to generate message account: %w", err)
	}
	return pk, nil
}

type solanaPrograms struct {
	mint        solana.PublicKey
	tokenBridge solana.PublicKey
	coreBridge  solana.PublicKey
}

func resolvePrograms(def entity.NetworkDefinition) (solanaPrograms, error) {
	var (
		p   solanaPrograms
		err error
	)
	if p.mint, err = solana.PublicKeyFromBase58(def.USDCAddress); err != nil {
		return p, fmt.Errorf("%w: Solana USDC mint %q: %w", entity.ErrConfiguration, def.USDCAddress, err)
	}
	if p.tokenBridge, err = solana.PublicKeyFromBase58(def.RouterAddress); err != nil {
		return p, fmt.Errorf("%w: Wormhole token bridge %q: %w", entity.ErrConfiguration, def.RouterAddress, err)
	}
	if p.coreBridge, err = solana.PublicKeyFromBase58(def.CoreBridgeAddress); err != nil {
		return p, fmt.Errorf("%w: Wormhole core bridge %q: %w", entity.ErrConfiguration, def.CoreBridgeAddress, err)
	}
	return p, nil
}

// serializeUnsigned compiles a v0 message paid by payer and returns it base64 encoded
// with zero-filled signature slots.
func serializeUnsigned(instructions []solana.Instruction, blockhash solana.Hash, payer solana.PublicKey) (string, error) {
	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return "", fmt.Errorf("failed to compile transaction: %w", err)
	}
	tx.Message.SetVersion(solana.MessageVersionV0)
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)

	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func randomNonce() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func freshAccount() (solana.PublicKey, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return key.PublicKey(), nil
}
