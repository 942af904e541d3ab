package client

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"usdc_bridge/internal/domain/entity"
	"usdc_bridge/internal/infrastructure/configloader"
	"usdc_bridge/internal/pkg/contracts"
	"usdc_bridge/internal/pkg/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	responses map[string][]byte
	err       error
	calls     []ethereum.CallMsg
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls = append(f.calls, msg)
	if f.err != nil {
		return nil, f.err
	}
	return f.responses[string(msg.Data[:4])], nil
}

var testNet = entity.NetworkDefinition{Identifier: "base", Name: "Base", Family: entity.FamilyEVM}

func packOutputs(t *testing.T, method string, values ...any) []byte {
	t.Helper()
	a := contracts.ERC20()
	if _, ok := a.Methods[method]; !ok {
		a = contracts.StargateRouter()
	}
	out, err := a.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)
	return out
}

func selector(method string) string {
	if m, ok := contracts.ERC20().Methods[method]; ok {
		return string(m.ID)
	}
	return string(contracts.StargateRouter().Methods[method].ID)
}

func TestEVMClient_TokenDecimals(t *testing.T) {
	caller := &fakeCaller{responses: map[string][]byte{selector("decimals"): packOutputs(t, "decimals", uint8(18))}}
	c := NewEVMClientWithCaller(testNet, caller, time.Second)

	token := common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	d, err := c.TokenDecimals(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint8(18), d)
	require.Len(t, caller.calls, 1)
	assert.Equal(t, token, *caller.calls[0].To)
}

func TestEVMClient_Allowance(t *testing.T) {
	caller := &fakeCaller{responses: map[string][]byte{selector("allowance"): packOutputs(t, "allowance", big.NewInt(42))}}
	c := NewEVMClientWithCaller(testNet, caller, time.Second)

	a, err := c.Allowance(context.Background(), common.Address{1}, common.Address{2}, common.Address{3})
	require.NoError(t, err)
	assert.Equal(t, int64(42), a.Int64())
}

func TestEVMClient_QuoteLayerZeroFee(t *testing.T) {
	caller := &fakeCaller{responses: map[string][]byte{
		selector("quoteLayerZeroFee"): packOutputs(t, "quoteLayerZeroFee", big.NewInt(1_000_000_000), big.NewInt(0)),
	}}
	c := NewEVMClientWithCaller(testNet, caller, time.Second)

	fee, err := c.QuoteLayerZeroFee(context.Background(), common.Address{9}, 101, common.Address{7}.Bytes())
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000_000), fee.Int64())
}

func TestEVMClient_RPCFailureIsUpstreamError(t *testing.T) {
	c := NewEVMClientWithCaller(testNet, &fakeCaller{err: errors.New("connection refused")}, time.Second)

	_, err := c.TokenDecimals(context.Background(), common.Address{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrUpstreamRPC)
}

func TestEVMClient_EmptyResult(t *testing.T) {
	c := NewEVMClientWithCaller(testNet, &fakeCaller{responses: map[string][]byte{}}, time.Second)

	_, err := c.TokenDecimals(context.Background(), common.Address{1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrUpstreamRPC)
}

type fakeBlockhash struct {
	hash solana.Hash
	err  error
}

func (f fakeBlockhash) GetLatestBlockhash(context.Context, rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &rpc.GetLatestBlockhashResult{Value: &rpc.LatestBlockhashResult{Blockhash: f.hash}}, nil
}

func TestSolanaClient_LatestBlockhash(t *testing.T) {
	want := solana.Hash{1, 2, 3}
	c := NewSolanaClientWithRPC(entity.NetworkDefinition{Identifier: "solana"}, fakeBlockhash{hash: want}, time.Second)

	got, err := c.LatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	c = NewSolanaClientWithRPC(entity.NetworkDefinition{Identifier: "solana"}, fakeBlockhash{err: errors.New("503")}, time.Second)
	_, err = c.LatestBlockhash(context.Background())
	assert.ErrorIs(t, err, entity.ErrUpstreamRPC)
}

func TestClientProvider_CachesAndChecksFamily(t *testing.T) {
	cfg := &configloader.Config{Performance: configloader.PerformanceConfig{RPCCallTimeoutSeconds: 1, ConnectionTimeoutSeconds: 1}}
	p := NewClientProvider(cfg, logger.NewZapAdapter(nil))

	sol := entity.NetworkDefinition{Identifier: "solana", Family: entity.FamilySolana, PrimaryRPCURL: "http://127.0.0.1:8899"}
	first, err := p.GetSolanaClient(sol)
	require.NoError(t, err)
	second, err := p.GetSolanaClient(sol)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = p.GetEVMClient(sol)
	assert.ErrorIs(t, err, entity.ErrConfiguration)

	_, err = p.GetSolanaClient(entity.NetworkDefinition{Identifier: "solana-devnet", Family: entity.FamilySolana})
	assert.ErrorIs(t, err, entity.ErrConfiguration)
}
