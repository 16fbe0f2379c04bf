package repository

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, price, category, image_url, stock`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Str("backend", "postgres").Logger(),
	}
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// List retrieves one page of products. The category filter is a
// case-insensitive substring match.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	where := `WHERE ($1::text = '' OR category ILIKE '%' || $1::text || '%')`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products `+where, filter.Category).Scan(&total); err != nil {
		r.logger.Error().Err(err).Str("category", filter.Category).Msg("failed to count products")
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products ` + where + `
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, filter.Category, filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error().Err(err).
			Str("category", filter.Category).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// Categories returns the distinct product categories.
func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to collect categories")
		return nil, fmt.Errorf("failed to collect categories: %w", err)
	}

	return categories, nil
}

// Count returns the number of products.
func (r *productRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Upsert inserts the products in a single batch, replacing existing rows.
func (r *productRepository) Upsert(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			image_url = EXCLUDED.image_url,
			stock = EXCLUDED.stock
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.Stock)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(products); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("product_id", products[i].ID).
				Msg("failed to upsert product")
			return fmt.Errorf("failed to upsert product %s: %w", products[i].ID, err)
		}
	}

	r.logger.Debug().Int("count", len(products)).Msg("products upserted successfully")

	return nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL, &p.Stock)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
