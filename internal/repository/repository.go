package repository

import (
	"context"

	"shopfront/internal/model"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetByID retrieves a single product by its ID.
	// Returns nil, nil when the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// List retrieves one page of products matching the filter together with
	// the total number of matches.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)

	// Categories returns the distinct product categories in sorted order.
	Categories(ctx context.Context) ([]string, error)

	// Count returns the number of products in the catalogue.
	Count(ctx context.Context) (int, error)

	// Upsert inserts the products, replacing any with the same ID.
	Upsert(ctx context.Context, products []model.Product) error
}

// CartRepository defines the interface for cart data access operations.
// Carts are keyed by user ID.
type CartRepository interface {
	// GetOrCreate retrieves the user's cart, creating an empty one if needed.
	GetOrCreate(ctx context.Context, userID string) (*model.Cart, error)

	// AddItem adds a line to the user's cart, merging the quantity into an
	// existing line for the same product. The cart is created if needed.
	AddItem(ctx context.Context, userID string, item model.CartItem) (*model.Cart, error)

	// RemoveItem removes the line for productID. It returns
	// model.ErrCartNotFound when the user has no cart and
	// model.ErrCartItemNotFound when the product is not in it.
	RemoveItem(ctx context.Context, userID, productID string) error

	// Clear removes every line from the user's cart. It returns
	// model.ErrCartNotFound when the user has no cart.
	Clear(ctx context.Context, userID string) error
}
