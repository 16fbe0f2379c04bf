package service

import (
	"context"
	"fmt"

	"shopfront/internal/model"
	"shopfront/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves one page of products. Limit must be between 1 and
// MaxProductLimit and offset must not be negative.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) (*model.ProductList, error) {
	if filter.Limit < 1 || filter.Limit > MaxProductLimit {
		s.logger.Debug().Int("limit", filter.Limit).Msg("limit out of range")
		return nil, model.NewDomainError(
			model.ErrCodeInvalidParameter,
			fmt.Sprintf("limit must be between 1 and %d", MaxProductLimit),
		)
	}
	if filter.Offset < 0 {
		s.logger.Debug().Int("offset", filter.Offset).Msg("offset out of range")
		return nil, model.NewDomainError(model.ErrCodeInvalidParameter, "offset must not be negative")
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Str("category", filter.Category).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("total", total).
		Str("category", filter.Category).
		Msg("retrieved products")

	return &model.ProductList{Products: products, Total: total}, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.NewProductNotFoundError(id)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.NewProductNotFoundError(id)
	}

	return product, nil
}

// Categories retrieves the distinct product categories.
func (s *productService) Categories(ctx context.Context) (*model.CategoryList, error) {
	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get categories")
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if categories == nil {
		categories = []string{}
	}

	return &model.CategoryList{Categories: categories}, nil
}
