// Command setup provisions the configured storage backend and seeds the
// product catalogue.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shopfront/internal/catalog"
	"shopfront/internal/config"
	"shopfront/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	skipSeed := flag.Bool("skip-seed", false, "only provision storage")
	seedFile := flag.String("file", "", "catalogue file to seed (overrides SEED_FILE)")
	flag.Parse()

	cfg, err := config.Load(config.ServiceSetup)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if *seedFile != "" {
		cfg.Seed.File = *seedFile
	}

	logger := config.NewLogger(cfg.Logger, cfg.Service)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := backend.Provision(ctx); err != nil {
		return fmt.Errorf("failed to provision storage: %w", err)
	}

	if *skipSeed {
		logger.Info().Msg("seeding skipped")
		return nil
	}

	loader := catalog.NewLoader(ctx, cfg.S3, logger)
	seeded, err := catalog.NewSeeder(backend.Products, loader, cfg.Seed.File, logger).Seed(ctx)
	if err != nil {
		return err
	}

	logger.Info().
		Str("storage", backend.Name).
		Int("seeded", seeded).
		Msg("setup completed")

	return nil
}
