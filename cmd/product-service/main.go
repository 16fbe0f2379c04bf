package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shopfront/internal/catalog"
	"shopfront/internal/config"
	"shopfront/internal/handler"
	"shopfront/internal/router"
	"shopfront/internal/server"
	"shopfront/internal/service"
	"shopfront/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.ServiceProduct)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, cfg.Service)
	logger.Info().
		Str("env", cfg.Env).
		Str("storage", cfg.Storage.Backend).
		Msg("starting product service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	// The PostgreSQL schema is always applied; DynamoDB tables are only
	// created here against DynamoDB Local, and by cmd/setup elsewhere.
	if cfg.Storage.Backend == config.BackendPostgres || cfg.IsLocal() {
		if err := backend.Provision(ctx); err != nil {
			return fmt.Errorf("failed to provision storage: %w", err)
		}
	}

	if cfg.Seed.OnStart {
		loader := catalog.NewLoader(ctx, cfg.S3, logger)
		if _, err := catalog.NewSeeder(backend.Products, loader, cfg.Seed.File, logger).Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed catalogue: %w", err)
		}
	}

	productService := service.NewProductService(backend.Products, logger)

	mux := router.NewProductRouter(
		handler.NewProductHandler(productService, logger),
		handler.NewHealthHandler(cfg.Service),
		cfg.CORS.Origins,
		logger,
	)

	return server.Run(ctx, server.New(cfg.Server.Address(), mux), logger)
}
