package catalog

import (
	"context"
	"fmt"
	"os"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for catalogue files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a catalogue file and returns its products.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", filePath).Msg("loading catalogue file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalogue file")
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", filePath, err)
	}
	defer file.Close()

	products, err := decode(file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read catalogue file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("products_loaded", len(products)).
		Msg("catalogue file loaded successfully")

	return products, nil
}
