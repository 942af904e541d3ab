package main

import (
	"usdc_bridge/internal/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		logger.Fatal("Command failed", "error", err)
	}
}
