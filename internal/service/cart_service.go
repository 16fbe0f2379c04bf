package service

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/model"
	"shopfront/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo repository.CartRepository
	products ProductLookup
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	products ProductLookup,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo: cartRepo,
		products: products,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves the user's cart, creating an empty one on first access.
func (s *cartService) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	cart.Total = cart.CalculateTotal()
	return cart, nil
}

// AddItem adds a product to the user's cart. The quantity defaults to 1 and
// must be positive; the product must exist and have at least the requested
// quantity in stock.
func (s *cartService) AddItem(ctx context.Context, userID string, req *model.AddToCartRequest) (*model.Cart, error) {
	if req.ProductID == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "product_id is required")
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 {
		s.logger.Debug().Int("quantity", quantity).Msg("invalid quantity")
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			s.logger.Debug().Str("product_id", req.ProductID).Msg("product not found")
			return nil, model.NewProductNotFoundError(req.ProductID)
		}
		s.logger.Error().Err(err).Str("product_id", req.ProductID).Msg("failed to validate product")
		return nil, err
	}

	if product.Stock < quantity {
		s.logger.Debug().
			Str("product_id", req.ProductID).
			Int("available", product.Stock).
			Int("requested", quantity).
			Msg("insufficient stock")
		return nil, model.NewInsufficientStockError(product.Stock, quantity)
	}

	cart, err := s.cartRepo.AddItem(ctx, userID, model.CartItem{
		ProductID: req.ProductID,
		Quantity:  quantity,
		Price:     product.Price,
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", req.ProductID).
			Msg("failed to add item to cart")
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}

	cart.Total = cart.CalculateTotal()

	s.logger.Info().
		Str("user_id", userID).
		Str("product_id", req.ProductID).
		Int("quantity", quantity).
		Float64("total", cart.Total).
		Msg("item added to cart")

	return cart, nil
}

// RemoveItem removes a product from the user's cart. A missing cart and a
// missing line both report model.ErrCartItemNotFound.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID string) error {
	err := s.cartRepo.RemoveItem(ctx, userID, productID)
	switch {
	case err == nil:
		s.logger.Info().Str("user_id", userID).Str("product_id", productID).Msg("item removed from cart")
		return nil
	case errors.Is(err, model.ErrCartNotFound), errors.Is(err, model.ErrCartItemNotFound):
		return model.ErrCartItemNotFound
	default:
		s.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to remove item")
		return fmt.Errorf("failed to remove item from cart: %w", err)
	}
}

// Clear removes every product from the user's cart.
func (s *cartService) Clear(ctx context.Context, userID string) error {
	err := s.cartRepo.Clear(ctx, userID)
	switch {
	case err == nil:
		s.logger.Info().Str("user_id", userID).Msg("cart cleared")
		return nil
	case errors.Is(err, model.ErrCartNotFound):
		return model.ErrCartNotFound
	default:
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
}
