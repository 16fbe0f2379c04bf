package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema creates the product and cart tables. It is idempotent.
const Schema = `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price DECIMAL(10, 2) NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL,
		image_url TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0)
	);
	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

	CREATE TABLE IF NOT EXISTS carts (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS cart_items (
		id UUID PRIMARY KEY,
		cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity > 0),
		price DECIMAL(10, 2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (cart_id, product_id)
	);
	CREATE INDEX IF NOT EXISTS idx_cart_items_cart_id ON cart_items(cart_id);
`

// EnsureSchema applies Schema to the database.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		logger.Error().Err(err).Msg("failed to apply database schema")
		return fmt.Errorf("failed to apply database schema: %w", err)
	}

	logger.Info().Msg("database schema applied")
	return nil
}
