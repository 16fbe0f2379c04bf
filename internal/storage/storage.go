// Package storage opens the configured persistence backend and exposes its
// repositories.
package storage

import (
	"context"
	"fmt"

	"shopfront/internal/config"
	"shopfront/internal/database"
	"shopfront/internal/dynamo"
	"shopfront/internal/repository"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Backend holds the repositories of one storage backend.
type Backend struct {
	Name     string
	Products repository.ProductRepository
	Carts    repository.CartRepository

	pool   *pgxpool.Pool
	dynamo *dynamodb.Client
	cfg    config.DynamoDBConfig
	logger zerolog.Logger
}

// Open connects to the backend selected by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Backend, error) {
	b := &Backend{
		Name:   cfg.Storage.Backend,
		cfg:    cfg.DynamoDB,
		logger: logger.With().Str("component", "storage").Str("backend", cfg.Storage.Backend).Logger(),
	}

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise database: %w", err)
		}
		b.pool = pool
		b.Products = repository.NewProductRepository(pool, logger)
		b.Carts = repository.NewCartRepository(pool, logger)

	case config.BackendDynamoDB:
		client, err := database.NewDynamoClient(ctx, cfg.DynamoDB, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise DynamoDB: %w", err)
		}
		b.dynamo = client
		b.Products = repository.NewDynamoProductRepository(
			dynamo.NewTable(client, cfg.DynamoDB.ProductsTable, logger), logger)
		b.Carts = repository.NewDynamoCartRepository(
			dynamo.NewTable(client, cfg.DynamoDB.CartsTable, logger), logger)

	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}

	b.logger.Info().Msg("storage backend opened")
	return b, nil
}

// Provision creates the schema or tables the repositories need. It is
// idempotent.
func (b *Backend) Provision(ctx context.Context) error {
	switch {
	case b.pool != nil:
		return database.EnsureSchema(ctx, b.pool, b.logger)
	case b.dynamo != nil:
		return database.EnsureDynamoTables(ctx, b.dynamo, b.cfg, b.logger)
	}
	return nil
}

// Close releases the backend's connections.
func (b *Backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}
