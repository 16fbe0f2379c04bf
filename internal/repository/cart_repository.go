package repository

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// cartRepository implements the CartRepository interface using PostgreSQL.
// Lines live in cart_items; adding a product that is already in the cart
// increments the quantity of its row.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Str("backend", "postgres").Logger(),
	}
}

// GetOrCreate retrieves the user's cart with its items, creating it if needed.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID string) (*model.Cart, error) {
	if err := r.createCart(ctx, r.pool, userID); err != nil {
		return nil, err
	}
	return r.loadCart(ctx, r.pool, userID)
}

// AddItem merges the item into the user's cart inside a transaction.
func (r *cartRepository) AddItem(ctx context.Context, userID string, item model.CartItem) (cart *model.Cart, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = r.createCart(ctx, tx, userID); err != nil {
		return nil, err
	}

	var cartID string
	err = tx.QueryRow(ctx, `SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`
	if _, err = tx.Exec(ctx, query, uuid.NewString(), cartID, item.ProductID, item.Quantity, item.Price); err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", cartID).
			Str("product_id", item.ProductID).
			Msg("failed to upsert cart item")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	if err = r.touch(ctx, tx, cartID); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID).
		Str("product_id", item.ProductID).
		Int("quantity", item.Quantity).
		Msg("cart item added")

	return r.loadCart(ctx, r.pool, userID)
}

// RemoveItem deletes the line for productID from the user's cart.
func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	cartID, err := r.cartID(ctx, userID)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID).Str("product_id", productID).Msg("failed to delete cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return r.touch(ctx, r.pool, cartID)
}

// Clear deletes every line from the user's cart.
func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	cartID, err := r.cartID(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to clear cart items")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return r.touch(ctx, r.pool, cartID)
}

func (r *cartRepository) createCart(ctx context.Context, q querier, userID string) error {
	query := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := q.Exec(ctx, query, uuid.NewString(), userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create cart")
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// cartID returns the ID of the user's cart or model.ErrCartNotFound.
func (r *cartRepository) cartID(ctx context.Context, userID string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrCartNotFound
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart")
		return "", fmt.Errorf("failed to query cart: %w", err)
	}
	return id, nil
}

func (r *cartRepository) touch(ctx context.Context, q querier, cartID string) error {
	if _, err := q.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to update cart timestamp")
		return fmt.Errorf("failed to update cart: %w", err)
	}
	return nil
}

func (r *cartRepository) loadCart(ctx context.Context, q querier, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := q.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`,
		userID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCartNotFound
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT product_id, quantity, price
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at, product_id
	`, cart.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	cart.Total = cart.CalculateTotal()

	return &cart, nil
}
