package restapi

import (
	"errors"
	"net/http"
	"strings"

	"usdc_bridge/internal/app/port"
	"usdc_bridge/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// BridgeHandler serves the quote, build and network listing endpoints.
type BridgeHandler struct {
	routeService port.RouteService
	logger       port.Logger
}

// NewBridgeHandler creates a new BridgeHandler.
func NewBridgeHandler(rs port.RouteService, l port.Logger) *BridgeHandler {
	return &BridgeHandler{routeService: rs, logger: l}
}

// GetQuoteHandler handles GET /api/quote?fromChain&toChain&token&amount.
func (h *BridgeHandler) GetQuoteHandler(c *gin.Context) {
	req := entity.QuoteRequest{
		FromChain: c.Query("fromChain"),
		ToChain:   c.Query("toChain"),
		Token:     c.DefaultQuery("token", "USDC"),
	}

	if raw := strings.TrimSpace(c.Query("amount")); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be a decimal number"})
			return
		}
		req.Amount = amount
	}

	quote, err := h.routeService.Quote(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// PostBridgeHandler handles POST /api/bridge and returns an unsigned transaction envelope.
func (h *BridgeHandler) PostBridgeHandler(c *gin.Context) {
	var req entity.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Detail: err.Error()})
		return
	}

	tx, err := h.routeService.BuildTransfer(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// GetNetworksHandler handles GET /api/networks.
func (h *BridgeHandler) GetNetworksHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"networks": h.routeService.Networks()})
}

// HealthzHandler handles GET /healthz.
func HealthzHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// NotFoundHandler answers every unmatched route.
func NotFoundHandler(c *gin.Context) {
	c.String(http.StatusNotFound, "Not Found")
}

func (h *BridgeHandler) writeError(c *gin.Context, err error) {
	if entity.IsClientError(err) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Detail: errorKind(err)})
}

// errorKind names the sentinel behind err for clients that branch on it.
func errorKind(err error) string {
	kinds := []struct {
		target error
		name   string
	}{
		{entity.ErrConfiguration, "configuration"},
		{entity.ErrInvalidRoute, "invalid_route"},
		{entity.ErrUnsupportedDirection, "unsupported_direction"},
		{entity.ErrBuilderUnavailable, "builder_unavailable"},
		{entity.ErrUpstreamRPC, "upstream_rpc"},
	}
	for _, k := range kinds {
		if errors.Is(err, k.target) {
			return k.name
		}
	}
	return "internal"
}
