package wormhole

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"usdc_bridge/internal/app/port/porttest"
	"usdc_bridge/internal/domain/chain"
	"usdc_bridge/internal/domain/entity"
	"usdc_bridge/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	senderKey    = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
	evmRecipient = "0x000000000000000000000000000000000000dEaD"
)

var (
	testBlockhash = solana.Hash{7, 7, 7}
	testMessage   = solana.MustPublicKeyFromBase58("11111111111111111111111111111112")
)

func newTestAdapter(enabled bool, sol *porttest.StaticSolanaClient) *Adapter {
	nets := porttest.Networks()
	return NewAdapter(nets, &porttest.ClientProvider{Solana: sol}, chain.NewClassifierFromNetworks(nets), Options{
		Enabled:        enabled,
		Nonce:          func() (uint32, error) { return 42, nil },
		MessageAccount: func() (solana.PublicKey, error) { return testMessage, nil },
	}, logger.NewZapAdapter(nil))
}

func solanaReq() entity.BuildRequest {
	return entity.BuildRequest{
		FromChain:       "solana",
		ToChain:         "ethereum",
		Token:           "USDC",
		Amount:          decimal.NewNullDecimal(decimal.RequireFromString("12.5")),
		SenderPublicKey: senderKey,
		EVMRecipient:    evmRecipient,
	}
}

func decodeTx(t *testing.T, payload *string) *solana.Transaction {
	t.Helper()
	require.NotNil(t, payload)
	raw, err := base64.StdEncoding.DecodeString(*payload)
	require.NoError(t, err)
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	require.NoError(t, err)
	return tx
}

func TestQuote(t *testing.T) {
	a := newTestAdapter(true, nil)

	q, err := a.Quote(entity.QuoteRequest{FromChain: "solana", ToChain: "base", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, RouteName, q.Route)
	assert.Equal(t, 0.9985, q.Rate)
	assert.InDelta(t, 0.35, q.Fee, 1e-9)
	assert.InDelta(t, 99.5, q.ToAmount, 1e-9)
	assert.Equal(t, "~4–9 min", q.ETA)

	q, err = a.Quote(entity.QuoteRequest{FromChain: "ethereum", ToChain: "solana", Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, q.Fee, 1e-9)
	assert.InDelta(t, 996.5, q.ToAmount, 1e-9)

	_, err = a.Quote(entity.QuoteRequest{FromChain: "base", ToChain: "ethereum", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, entity.ErrInvalidRoute)
}

func TestBuildTransfer_SolanaToEVM(t *testing.T) {
	sol := &porttest.StaticSolanaClient{Hash: testBlockhash}
	a := newTestAdapter(true, sol)

	env, err := a.BuildTransfer(context.Background(), solanaReq())
	require.NoError(t, err)
	assert.Equal(t, entity.FamilySolana, env.ChainType)
	assert.Equal(t, 1, sol.Calls)

	tx := decodeTx(t, env.Solana)
	msg := tx.Message
	assert.True(t, msg.IsVersioned())
	assert.Equal(t, testBlockhash, msg.RecentBlockhash)

	sender := solana.MustPublicKeyFromBase58(senderKey)
	assert.Equal(t, sender, msg.AccountKeys[0], "sender pays the fee")
	assert.Equal(t, uint8(2), msg.Header.NumRequiredSignatures)
	require.Len(t, tx.Signatures, 2)
	for _, sig := range tx.Signatures {
		assert.Equal(t, solana.Signature{}, sig, "transaction must be unsigned")
	}

	require.Len(t, msg.Instructions, 2)
	approve := msg.Instructions[0]
	transfer := msg.Instructions[1]
	assert.Equal(t, solana.TokenProgramID, msg.AccountKeys[approve.ProgramIDIndex])
	assert.Equal(t, solana.MustPublicKeyFromBase58("wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb"), msg.AccountKeys[transfer.ProgramIDIndex])

	// SPL Approve: tag 4 followed by the u64 amount.
	require.Len(t, approve.Data, 9)
	assert.Equal(t, byte(4), approve.Data[0])
	assert.Equal(t, uint64(12_500_000), binary.LittleEndian.Uint64(approve.Data[1:]))

	acc, err := DeriveBridgeAccounts(tokenBridgeProgram, coreBridgeProgram, usdcMint)
	require.NoError(t, err)
	assert.Equal(t, acc.AuthoritySigner, msg.AccountKeys[approve.Accounts[1]], "delegate is the authority signer")

	args, err := DecodeTransferNativeArgs(transfer.Data)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), args.Nonce)
	assert.Equal(t, uint64(12_500_000), args.Amount)
	assert.Equal(t, uint64(0), args.Fee)
	assert.Equal(t, uint16(2), args.TargetChain)
	decoded, err := DecodeEVMAddress(args.TargetAddr)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(evmRecipient), decoded)
}

func TestBuildTransfer_AcceptsLegacySenderField(t *testing.T) {
	a := newTestAdapter(true, &porttest.StaticSolanaClient{Hash: testBlockhash})

	req := solanaReq()
	req.SenderPublicKey = ""
	req.SVMSender = senderKey
	env, err := a.BuildTransfer(context.Background(), req)
	require.NoError(t, err)
	assert.NotNil(t, env.Solana)
}

func TestBuildTransfer_UsesCallerMessageAccount(t *testing.T) {
	a := newTestAdapter(true, &porttest.StaticSolanaClient{Hash: testBlockhash})
	own := solana.MustPublicKeyFromBase58("Vote111111111111111111111111111111111111111")

	req := solanaReq()
	req.MessagePublicKey = own.String()
	env, err := a.BuildTransfer(context.Background(), req)
	require.NoError(t, err)

	tx := decodeTx(t, env.Solana)
	assert.Contains(t, tx.Message.AccountKeys, own)
	assert.NotContains(t, tx.Message.AccountKeys, testMessage)
	assert.Equal(t, noteReady, env.Note)
}

func TestBuildTransfer_GeneratedMessageAccountIsNoted(t *testing.T) {
	a := newTestAdapter(true, &porttest.StaticSolanaClient{Hash: testBlockhash})

	env, err := a.BuildTransfer(context.Background(), solanaReq())
	require.NoError(t, err)

	tx := decodeTx(t, env.Solana)
	assert.Contains(t, tx.Message.AccountKeys, testMessage)
	assert.Equal(t, noteGenerated, env.Note)
}

func TestBuildTransfer_DisabledBuilder(t *testing.T) {
	sol := &porttest.StaticSolanaClient{Hash: testBlockhash}
	a := newTestAdapter(false, sol)

	env, err := a.BuildTransfer(context.Background(), solanaReq())
	require.NoError(t, err)
	assert.Equal(t, entity.FamilySolana, env.ChainType)
	assert.Nil(t, env.Solana)
	assert.NotEmpty(t, env.Note)
	assert.Zero(t, sol.Calls)
}

func TestBuildTransfer_DisabledBuilderLogsCause(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	nets := porttest.Networks()
	a := NewAdapter(nets, &porttest.ClientProvider{}, chain.NewClassifierFromNetworks(nets),
		Options{Enabled: false}, logger.NewZapAdapter(zap.New(core)))

	_, err := a.BuildTransfer(context.Background(), solanaReq())
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], entity.ErrBuilderUnavailable.Error())
}

func TestBuildTransfer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *entity.BuildRequest)
		wantErr error
	}{
		{"evm origin", func(r *entity.BuildRequest) { r.FromChain, r.ToChain = "base", "solana" }, entity.ErrUnsupportedDirection},
		{"solana to solana", func(r *entity.BuildRequest) { r.ToChain = "solana" }, entity.ErrUnsupportedDirection},
		{"missing sender", func(r *entity.BuildRequest) { r.SenderPublicKey = "" }, entity.ErrMissingParameter},
		{"missing recipient", func(r *entity.BuildRequest) { r.EVMRecipient = "" }, entity.ErrMissingParameter},
		{"malformed sender", func(r *entity.BuildRequest) { r.SenderPublicKey = "0xnot-base58" }, entity.ErrInvalidParameter},
		{"malformed recipient", func(r *entity.BuildRequest) { r.EVMRecipient = "0x12" }, entity.ErrInvalidParameter},
		{"malformed message account", func(r *entity.BuildRequest) { r.MessagePublicKey = "%%" }, entity.ErrInvalidParameter},
		{"missing amount", func(r *entity.BuildRequest) { r.Amount = decimal.NullDecimal{} }, entity.ErrMissingParameter},
		{"negative amount", func(r *entity.BuildRequest) { r.Amount = decimal.NewNullDecimal(decimal.NewFromInt(-1)) }, entity.ErrInvalidParameter},
		{"destination without wormhole id", func(r *entity.BuildRequest) { r.ToChain = "bnb" }, entity.ErrConfiguration},
		{"unknown destination", func(r *entity.BuildRequest) { r.ToChain = "tron" }, entity.ErrUnknownChain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol := &porttest.StaticSolanaClient{Hash: testBlockhash}
			a := newTestAdapter(true, sol)
			req := solanaReq()
			tt.mutate(&req)

			_, err := a.BuildTransfer(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, sol.Calls, "validation must happen before any network call")
		})
	}
}

func TestBuildTransfer_BlockhashFailure(t *testing.T) {
	sol := &porttest.StaticSolanaClient{Err: fmt.Errorf("%w: 503", entity.ErrUpstreamRPC)}
	a := newTestAdapter(true, sol)

	_, err := a.BuildTransfer(context.Background(), solanaReq())
	assert.ErrorIs(t, err, entity.ErrUpstreamRPC)
}

func TestBuildTransfer_NonceFailure(t *testing.T) {
	nets := porttest.Networks()
	a := NewAdapter(nets, &porttest.ClientProvider{}, chain.NewClassifierFromNetworks(nets), Options{
		Enabled: true,
		Nonce:   func() (uint32, error) { return 0, errors.New("entropy exhausted") },
	}, logger.NewZapAdapter(nil))

	_, err := a.BuildTransfer(context.Background(), solanaReq())
	assert.Error(t, err)
}

func TestBuilderEnabled(t *testing.T) {
	def := entity.NetworkDefinition{PrimaryRPCURL: "http://rpc", RouterAddress: "wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb"}
	off, on := false, true

	assert.True(t, BuilderEnabled(def, true, nil))
	assert.False(t, BuilderEnabled(def, false, nil))
	assert.False(t, BuilderEnabled(entity.NetworkDefinition{RouterAddress: def.RouterAddress}, true, nil))
	assert.False(t, BuilderEnabled(def, true, &off))
	assert.True(t, BuilderEnabled(entity.NetworkDefinition{}, false, &on))
}
