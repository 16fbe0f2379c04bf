package service

import (
	"context"

	"shopfront/internal/model"
)

// Pagination bounds for product listings.
const (
	DefaultProductLimit = 100
	MaxProductLimit     = 100
)

// ProductService defines operations for the product catalogue.
type ProductService interface {
	// List retrieves one page of products and the total number of matches.
	List(ctx context.Context, filter model.ProductFilter) (*model.ProductList, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Categories retrieves the distinct product categories.
	Categories(ctx context.Context) (*model.CategoryList, error)
}

// CartService defines operations on the authenticated user's cart.
type CartService interface {
	// GetCart retrieves the user's cart with its total, creating it if needed.
	GetCart(ctx context.Context, userID string) (*model.Cart, error)

	// AddItem validates the product and its stock with the Product Service
	// and adds it to the user's cart at the current price.
	AddItem(ctx context.Context, userID string, req *model.AddToCartRequest) (*model.Cart, error)

	// RemoveItem removes a product from the user's cart.
	RemoveItem(ctx context.Context, userID, productID string) error

	// Clear removes every product from the user's cart.
	Clear(ctx context.Context, userID string) error
}

// AuthService defines the login operation.
type AuthService interface {
	// Login exchanges directory credentials for a bearer token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}

// ProductLookup fetches a product from the Product Service.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
}
