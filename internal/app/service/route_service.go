package service

import (
	"context"
	"fmt"
	"strings"

	"usdc_bridge/internal/app/port"
	"usdc_bridge/internal/domain/chain"
	"usdc_bridge/internal/domain/entity"
	"usdc_bridge/internal/pkg/metrics"
	"usdc_bridge/internal/pkg/tracing"
)

// Outcome labels of metrics.RequestsTotal.
const (
	outcomeOK          = "ok"
	outcomeClientError = "client_error"
	outcomeError       = "error"
)

// RouteServiceImpl implements port.RouteService.
type RouteServiceImpl struct {
	classifier *chain.Classifier
	networks   port.NetworkDefinitionProvider
	adapters   map[entity.ChainFamily]port.RouteAdapter
	logger     port.Logger
}

// NewRouteService creates a dispatcher over one adapter per family.
func NewRouteService(
	classifier *chain.Classifier,
	np port.NetworkDefinitionProvider,
	l port.Logger,
	adapters ...port.RouteAdapter,
) *RouteServiceImpl {
	s := &RouteServiceImpl{
		classifier: classifier,
		networks:   np,
		adapters:   make(map[entity.ChainFamily]port.RouteAdapter, len(adapters)),
		logger:     l,
	}
	for _, a := range adapters {
		s.adapters[a.Family()] = a
	}
	return s
}

var _ port.RouteService = (*RouteServiceImpl)(nil)

// Quote validates the request and delegates to the adapter of the selected route.
// A non-positive amount yields the placeholder quote.
func (s *RouteServiceImpl) Quote(ctx context.Context, req entity.QuoteRequest) (q entity.Quote, err error) {
	_, span := tracing.Start(ctx, "RouteService.Quote", "from", req.FromChain, "to", req.ToChain)
	route := ""
	defer func() {
		s.record("quote", route, err)
		tracing.End(span, err)
	}()

	req.FromChain = normalize(req.FromChain)
	req.ToChain = normalize(req.ToChain)
	if req.FromChain == "" || req.ToChain == "" {
		return entity.Quote{}, fmt.Errorf("%w: fromChain and toChain are required", entity.ErrMissingParameter)
	}
	if req.Amount.Sign() <= 0 {
		return entity.PlaceholderQuote(), nil
	}

	family, err := s.classifier.SelectRoute(req.FromChain, req.ToChain)
	if err != nil {
		return entity.Quote{}, err
	}
	route = family.String()

	a, err := s.adapter(family)
	if err != nil {
		return entity.Quote{}, err
	}
	return a.Quote(req)
}

// BuildTransfer validates the request and delegates by source family: Solana-origin
// transfers go to the Solana adapter, every EVM-origin transfer to the EVM adapter.
func (s *RouteServiceImpl) BuildTransfer(ctx context.Context, req entity.BuildRequest) (tx entity.UnsignedTx, err error) {
	ctx, span := tracing.Start(ctx, "RouteService.BuildTransfer", "from", req.FromChain, "to", req.ToChain)
	route := ""
	defer func() {
		s.record("bridge", route, err)
		tracing.End(span, err)
	}()

	req.FromChain = normalize(req.FromChain)
	req.ToChain = normalize(req.ToChain)
	if req.FromChain == "" || req.ToChain == "" || !req.Amount.Valid {
		return entity.UnsignedTx{}, fmt.Errorf("%w: fromChain, toChain and amount are required", entity.ErrMissingParameter)
	}

	// Validates both endpoints.
	if _, err = s.classifier.SelectRoute(req.FromChain, req.ToChain); err != nil {
		return entity.UnsignedTx{}, err
	}
	family, err := s.classifier.Family(req.FromChain)
	if err != nil {
		return entity.UnsignedTx{}, err
	}
	route = family.String()

	a, err := s.adapter(family)
	if err != nil {
		return entity.UnsignedTx{}, err
	}

	s.logger.Debug("Dispatching build", "from", req.FromChain, "to", req.ToChain, "route", route)
	tx, err = a.BuildTransfer(ctx, req)
	if err != nil {
		if entity.IsClientError(err) {
			s.logger.Info("Build rejected", "from", req.FromChain, "to", req.ToChain, "error", err)
		} else {
			s.logger.Error("Build failed", "from", req.FromChain, "to", req.ToChain, "error", err)
		}
		return entity.UnsignedTx{}, err
	}
	return tx, nil
}

// Networks returns every configured network.
func (s *RouteServiceImpl) Networks() []entity.NetworkDefinition {
	return s.networks.GetAllNetworkDefinitions()
}

func (s *RouteServiceImpl) adapter(family entity.ChainFamily) (port.RouteAdapter, error) {
	a, ok := s.adapters[family]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter registered for family %s", entity.ErrConfiguration, family)
	}
	return a, nil
}

func (s *RouteServiceImpl) record(endpoint, route string, err error) {
	outcome := outcomeOK
	switch {
	case err == nil:
	case entity.IsClientError(err):
		outcome = outcomeClientError
	default:
		outcome = outcomeError
	}
	if route == "" {
		route = "none"
	}
	metrics.RequestsTotal.WithLabelValues(endpoint, route, outcome).Inc()
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
