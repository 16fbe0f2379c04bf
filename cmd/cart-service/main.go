package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopfront/internal/auth"
	"shopfront/internal/config"
	"shopfront/internal/handler"
	"shopfront/internal/productclient"
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
	cfg, err := config.Load(config.ServiceCart)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, cfg.Service)
	logger.Info().
		Str("env", cfg.Env).
		Str("storage", cfg.Storage.Backend).
		Str("product_service", cfg.ProductService.URL).
		Bool("cognito", cfg.Auth.UseCognito).
		Msg("starting cart service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	if cfg.Storage.Backend == config.BackendPostgres || cfg.IsLocal() {
		if err := backend.Provision(ctx); err != nil {
			return fmt.Errorf("failed to provision storage: %w", err)
		}
	}

	products := productclient.New(cfg.ProductService, logger)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	cartService := service.NewCartService(backend.Carts, products, logger)
	authService := service.NewAuthService(auth.NewDirectory(), issuer, cfg.Auth.UseCognito, logger)

	mux := router.NewCartRouter(
		handler.NewCartHandler(cartService, logger),
		handler.NewAuthHandler(authService, logger),
		handler.NewHealthHandler(cfg.Service),
		auth.NewVerifier(cfg.Auth, logger),
		cfg.CORS.Origins,
		logger,
	)

	return server.Run(ctx, server.New(cfg.Server.Address(), mux), logger)
}
