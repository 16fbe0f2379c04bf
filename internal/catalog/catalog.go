// Package catalog loads product catalogues and seeds them into an empty
// product store.
//
// A catalogue is a JSON array of products. Files whose name ends in ".gz"
// are gzip-compressed. Catalogues come from the local file system or S3;
// NewLoader picks the source from configuration.
package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"shopfront/internal/config"
	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// Loader defines the interface for loading catalogue files.
type Loader interface {
	// Load reads the named catalogue and returns its products.
	Load(ctx context.Context, name string) ([]model.Product, error)
}

// NewLoader returns a fallback loader that tries S3 when it is enabled and
// the local file system otherwise. A failure to set up the S3 client
// leaves the local file system as the only source.
func NewLoader(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) Loader {
	fileLoader := NewFileLoader(logger)
	if !cfg.Enabled {
		logger.Info().Msg("using local file system for catalogue files (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}

	return NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, true, logger)
}

// decode parses a catalogue, decompressing it first when name ends in ".gz".
func decode(r io.Reader, name string) ([]model.Product, error) {
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
	}

	var products []model.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue %s: %w", name, err)
	}

	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("catalogue %s entry %d: %w", name, i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("catalogue %s entry %d: duplicate product id %q", name, i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	return products, nil
}

func validate(p model.Product) error {
	switch {
	case p.ID == "":
		return fmt.Errorf("product id is required")
	case p.Name == "":
		return fmt.Errorf("product %s: name is required", p.ID)
	case p.Category == "":
		return fmt.Errorf("product %s: category is required", p.ID)
	case p.Price < 0:
		return fmt.Errorf("product %s: price cannot be negative", p.ID)
	case p.Stock < 0:
		return fmt.Errorf("product %s: stock cannot be negative", p.ID)
	}
	return nil
}
