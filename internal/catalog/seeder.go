package catalog

import (
	"context"
	"fmt"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// Store is the part of the product repository the seeder writes to.
type Store interface {
	Count(ctx context.Context) (int, error)
	Upsert(ctx context.Context, products []model.Product) error
}

// Seeder fills an empty product store with a catalogue.
type Seeder struct {
	store  Store
	loader Loader
	file   string
	logger zerolog.Logger
}

// NewSeeder creates a seeder. An empty file seeds SampleProducts.
func NewSeeder(store Store, loader Loader, file string, logger zerolog.Logger) *Seeder {
	return &Seeder{
		store:  store,
		loader: loader,
		file:   file,
		logger: logger.With().Str("component", "seeder").Logger(),
	}
}

// Seed writes the catalogue when the store is empty and returns the number
// of products written. A store that already holds products is left alone.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		s.logger.Info().Int("existing", count).Msg("product store already seeded, skipping")
		return 0, nil
	}

	products := SampleProducts()
	if s.file != "" {
		if products, err = s.loader.Load(ctx, s.file); err != nil {
			return 0, fmt.Errorf("failed to load catalogue: %w", err)
		}
	}

	if err := s.store.Upsert(ctx, products); err != nil {
		return 0, fmt.Errorf("failed to seed products: %w", err)
	}

	s.logger.Info().
		Int("products", len(products)).
		Str("source", s.source()).
		Msg("product store seeded")

	return len(products), nil
}

func (s *Seeder) source() string {
	if s.file == "" {
		return "built-in"
	}
	return s.file
}
