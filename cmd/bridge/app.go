package main

import (
	"fmt"

	"usdc_bridge/internal/app/adapter/stargate"
	"usdc_bridge/internal/app/adapter/wormhole"
	"usdc_bridge/internal/app/port"
	"usdc_bridge/internal/app/service"
	"usdc_bridge/internal/domain/chain"
	"usdc_bridge/internal/domain/entity"
	"usdc_bridge/internal/infrastructure/configloader"
	"usdc_bridge/internal/infrastructure/network/client"
	networkdefinition "usdc_bridge/internal/infrastructure/network/definition"
	"usdc_bridge/internal/pkg/logger"

	"go.uber.org/zap"
)

// application holds the wired components shared by every command.
type application struct {
	cfg          *configloader.Config
	zapLogger    *zap.Logger
	routeService *service.RouteServiceImpl
}

func newApplication(configPath string) (*application, error) {
	cfg, err := configloader.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	zapLogger, err := logger.Init(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zapLogger.Info("Configuration loaded", zap.String("path", configPath))

	log := logger.NewSlogAdapter()
	networks := networkdefinition.NewNetworkDefinitionProvider(log, cfg)
	classifier := chain.NewClassifierFromNetworks(networks.GetAllNetworkDefinitions())
	clients := client.NewClientProvider(cfg, log)

	evm := stargate.NewAdapter(
		networks,
		clients,
		service.NewUnitConverter(cfg.Bridge.DefaultTokenDecimals, logger.NewZapAdapter(zapLogger.Named("units"))),
		classifier,
		stargate.Options{PoolID: cfg.Bridge.StargatePoolID, DefaultSlippageBps: *cfg.Bridge.DefaultSlippageBps},
		logger.NewZapAdapter(zapLogger.Named("stargate")),
	)

	solanaDef, found := networks.GetNetworkDefinitionByName(entity.SolanaChainID)
	solanaEnabled := wormhole.BuilderEnabled(solanaDef, found, cfg.Bridge.SolanaBuilderEnabled)
	svm := wormhole.NewAdapter(networks, clients, classifier,
		wormhole.Options{Enabled: solanaEnabled},
		logger.NewZapAdapter(zapLogger.Named("wormhole")),
	)
	zapLogger.Info("Route adapters initialized",
		zap.Int("networks", len(networks.GetAllNetworkDefinitions())),
		zap.Bool("solanaBuilder", solanaEnabled))

	adapters := []port.RouteAdapter{evm, svm}
	return &application{
		cfg:          cfg,
		zapLogger:    zapLogger,
		routeService: service.NewRouteService(classifier, networks, log, adapters...),
	}, nil
}
