package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"usdc_bridge/internal/app/adapter/stargate"
	"usdc_bridge/internal/app/adapter/wormhole"
	"usdc_bridge/internal/app/port/porttest"
	"usdc_bridge/internal/app/service"
	"usdc_bridge/internal/domain/chain"
	"usdc_bridge/internal/infrastructure/configloader"
	"usdc_bridge/internal/pkg/logger"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T, solanaEnabled bool, server configloader.ServerConfig) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewZapAdapter(nil)
	nets := porttest.Networks()
	classifier := chain.NewClassifierFromNetworks(nets)
	clients := &porttest.ClientProvider{Solana: &porttest.StaticSolanaClient{Hash: solana.Hash{1}}}

	evm := stargate.NewAdapter(nets, clients, service.NewUnitConverter(6, log), classifier,
		stargate.Options{PoolID: 1, DefaultSlippageBps: 50}, log)
	svm := wormhole.NewAdapter(nets, clients, classifier, wormhole.Options{Enabled: solanaEnabled}, log)
	rs := service.NewRouteService(classifier, nets, log, evm, svm)

	return &testServer{router: SetupRouter(NewBridgeHandler(rs, log), zap.NewNop(), server)}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, false, configloader.ServerConfig{})
	w := s.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, false, configloader.ServerConfig{})
	w := s.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not Found", w.Body.String())
}

func TestQuoteEndpoint(t *testing.T) {
	s := newTestServer(t, false, configloader.ServerConfig{})

	tests := []struct {
		name     string
		query    string
		status   int
		route    string
		toAmount float64
	}{
		{"evm route", "fromChain=base&toChain=ethereum&token=USDC&amount=100", http.StatusOK, "Stargate", 99.67},
		{"solana route", "fromChain=solana&toChain=base&amount=100", http.StatusOK, "Wormhole", 99.5},
		{"evm to solana is quoted on the solana route", "fromChain=base&toChain=solana&amount=100", http.StatusOK, "Wormhole", 99.5},
		{"empty amount yields placeholder", "fromChain=base&toChain=ethereum", http.StatusOK, "none", 0},
		{"zero amount yields placeholder", "fromChain=base&toChain=ethereum&amount=0", http.StatusOK, "none", 0},
		{"missing chain", "toChain=ethereum&amount=1", http.StatusBadRequest, "", 0},
		{"non numeric amount", "fromChain=base&toChain=ethereum&amount=abc", http.StatusBadRequest, "", 0},
		{"unknown chain", "fromChain=base&toChain=tron&amount=1", http.StatusBadRequest, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodGet, "/api/quote?"+tt.query, "")
			require.Equal(t, tt.status, w.Code, w.Body.String())
			body := decodeBody(t, w)
			if tt.status != http.StatusOK {
				assert.NotEmpty(t, body["error"])
				return
			}
			assert.Equal(t, tt.route, body["route"])
			assert.InDelta(t, tt.toAmount, body["toAmount"], 1e-9)
			if tt.route == "none" {
				assert.Equal(t, "–", body["eta"])
				assert.EqualValues(t, 0, body["fee"])
				assert.EqualValues(t, 0, body["rate"])
			}
		})
	}
}

func TestBridgeEndpoint_EVMApproval(t *testing.T) {
	s := newTestServer(t, false, configloader.ServerConfig{})

	w := s.do(http.MethodPost, "/api/bridge", `{"fromChain":"base","toChain":"ethereum","token":"USDC","amount":"12.5"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "evm", body["chainType"])
	assert.Equal(t, true, body["needsApproval"])
	tx := body["tx"].(map[string]any)
	assert.Equal(t, "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", tx["to"])
	assert.True(t, strings.HasPrefix(tx["data"].(string), "0x095ea7b3"))
	assert.Equal(t, "0x0", tx["value"])
}

func TestBridgeEndpoint_EVMSwapWithNumericAmount(t *testing.T) {
	s := newTestServer(t, false, configloader.ServerConfig{})

	w := s.do(http.MethodPost, "/api/bridge",
		`{"fromChain":"base","toChain":"ethereum","amount":100,"recipient":"0x000000000000000000000000000000000000dEaD"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Nil(t, body["needsApproval"])
	tx := body["tx"].(map[string]any)
	assert.Equal(t, "0x45f1A95A4D3f3836523F5c83673c797f4d4d263B", tx["to"])
}

func TestBridgeEndpoint_SolanaBuilderDisabled(t *testing.T) {
	s := newTestServer(t, false, configloader.ServerConfig{})

	w := s.do(http.MethodPost, "/api/bridge",
		`{"fromChain":"solana","toChain":"ethereum","amount":"5","senderPublicKey":"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM","evmRecipient":"0x000000000000000000000000000000000000dEaD"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "svm", body["chainType"])
	assert.Contains(t, body, "tx")
	assert.Nil(t, body["tx"])
	assert.NotEmpty(t, body["note"])
}

func TestBridgeEndpoint_SolanaBuild(t *testing.T) {
	s := newTestServer(t, true, configloader.ServerConfig{})

	w := s.do(http.MethodPost, "/api/bridge",
		`{"fromChain":"solana","toChain":"ethereum","amount":"5","svmSender":"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM","evmRecipient":"0x000000000000000000000000000000000000dEaD"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "svm", body["chainType"])
	assert.NotEmpty(t, body["tx"])
}

func TestBridgeEndpoint_Errors(t *testing.T) {
	s := newTestServer(t, true, configloader.ServerConfig{})

	tests := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{"malformed json", `{"fromChain":`, http.StatusBadRequest, ""},
		{"missing fromChain", `{"toChain":"ethereum","amount":"1"}`, http.StatusBadRequest, ""},
		{"missing amount", `{"fromChain":"base","toChain":"ethereum"}`, http.StatusBadRequest, ""},
		{"non numeric amount", `{"fromChain":"base","toChain":"ethereum","amount":"abc"}`, http.StatusBadRequest, ""},
		{"slippage out of range", `{"fromChain":"base","toChain":"ethereum","amount":"1","slippageBps":10001}`, http.StatusBadRequest, ""},
		{"unknown chain", `{"fromChain":"tron","toChain":"ethereum","amount":"1"}`, http.StatusBadRequest, ""},
		{"missing solana parameters", `{"fromChain":"solana","toChain":"ethereum","amount":"1"}`, http.StatusBadRequest, ""},
		{"destination not configured", `{"fromChain":"base","toChain":"bnb","amount":"1","recipient":"0x000000000000000000000000000000000000dEaD"}`, http.StatusInternalServerError, "configuration"},
		{"router not configured", `{"fromChain":"bnb","toChain":"base","amount":"1"}`, http.StatusInternalServerError, "configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/bridge", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			body := decodeBody(t, w)
			assert.NotEmpty(t, body["error"])
			if tt.detail != "" {
				assert.Equal(t, tt.detail, body["detail"])
			}
		})
	}
}

func TestNetworksEndpoint(t *testing.T) {
	s := newTestServer(t, false, configloader.ServerConfig{})

	w := s.do(http.MethodGet, "/api/networks", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	networks := body["networks"].([]any)
	assert.Len(t, networks, len(porttest.Networks()))
	first := networks[0].(map[string]any)
	assert.Equal(t, "ethereum", first["identifier"])
	assert.NotContains(t, first, "primaryRpcUrl")
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, false, configloader.ServerConfig{RateLimitRPS: 0.001, RateLimitBurst: 1})

	first := s.do(http.MethodGet, "/api/quote?fromChain=base&toChain=ethereum&amount=1", "")
	assert.Equal(t, http.StatusOK, first.Code)
	second := s.do(http.MethodGet, "/api/quote?fromChain=base&toChain=ethereum&amount=1", "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", "").Code, "health checks are not limited")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, false, configloader.ServerConfig{})

	req := httptest.NewRequest(http.MethodOptions, "/api/bridge", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
