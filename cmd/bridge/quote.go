package main

import (
	"context"
	"os"

	"usdc_bridge/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newQuoteCmd(configPath *string) *cobra.Command {
	var req entity.QuoteRequest
	var amount string

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Prints a transfer quote as JSON",
		Example: `  bridge quote --from base --to ethereum --amount 100
  bridge quote --from solana --to arbitrum --amount 25.5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if amount != "" {
				d, err := decimal.NewFromString(amount)
				if err != nil {
					return err
				}
				req.Amount = d
			}

			app, err := newApplication(*configPath)
			if err != nil {
				return err
			}
			defer app.zapLogger.Sync() //nolint:errcheck

			quote, err := app.routeService.Quote(context.Background(), req)
			if err != nil {
				return err
			}
			return printJSON(quote)
		},
	}
	cmd.Flags().StringVar(&req.FromChain, "from", "", "source chain identifier")
	cmd.Flags().StringVar(&req.ToChain, "to", "", "destination chain identifier")
	cmd.Flags().StringVar(&req.Token, "token", "USDC", "token symbol")
	cmd.Flags().StringVar(&amount, "amount", "", "human-readable amount")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newNetworksCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "Lists the configured networks as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApplication(*configPath)
			if err != nil {
				return err
			}
			defer app.zapLogger.Sync() //nolint:errcheck
			return printJSON(map[string]any{"networks": app.routeService.Networks()})
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
