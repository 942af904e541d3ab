package main

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yml"

func newRootCmd() *cobra.Command {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	root := &cobra.Command{
		Use:   "bridge",
		Short: "USDC bridge API for EVM chains and Solana",
		Long: `Quotes USDC transfers between EVM chains and Solana and builds the
unsigned transactions a wallet signs to execute them.

Configuration is read from a YAML file and overridden through ENV.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "path to the YAML config file (env CONFIG_PATH)")

	root.AddCommand(
		newServeCmd(&configPath),
		newQuoteCmd(&configPath),
		newNetworksCmd(&configPath),
	)
	return root
}
