// Package main - Entry point for the card price server
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"cardprice/api"
	"cardprice/core/messages"
	"cardprice/core/modifiers"
	"cardprice/core/pricing"
	"cardprice/internal/config"
	"cardprice/internal/logging"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "Config file (.toml or .json)")
	addr := flag.String("addr", "", "Server address (overrides config)")
	modifiersPath := flag.String("modifiers", "", "HCL modifier table (overrides config)")
	locale := flag.String("locale", "", "Default message locale (en, uk)")
	flag.Parse()

	if err := config.LoadEnvFiles(".env"); err != nil {
		log.Fatal(err)
	}
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatal(err)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}
	if *modifiersPath != "" {
		cfg.Pricing.ModifiersPath = *modifiersPath
	}
	if *locale != "" {
		cfg.Pricing.Locale = *locale
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Fatal(err)
	}
	defer logging.Sync()
	logger := logging.Named("server")

	// Modifier table: file if configured, built-in otherwise
	table := modifiers.Default()
	if cfg.Pricing.ModifiersPath != "" {
		loaded, err := modifiers.LoadFile(cfg.Pricing.ModifiersPath)
		if err != nil {
			logger.Fatal("load modifier table", zap.Error(err))
		}
		table = loaded
	}

	catalog, err := messages.For(cfg.Pricing.Locale)
	if err != nil {
		logger.Fatal("select locale", zap.Error(err))
	}

	server := api.NewServer(version, pricing.NewCalculator(table), catalog, cfg.Server)

	fmt.Printf("🃏 Card Price Server v%s\n", version)
	fmt.Printf("   Form: http://localhost%s/\n", cfg.Server.Address)
	fmt.Printf("   API:  http://localhost%s/api/v1/price\n", cfg.Server.Address)
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
