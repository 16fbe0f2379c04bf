// Package productclient calls the Product Service over HTTP on behalf of the
// Cart Service.
package productclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shopfront/internal/config"
	"shopfront/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Client fetches products from the Product Service. Requests are not retried.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// New creates a client for the Product Service at cfg.URL, which includes
// the API prefix (e.g. http://product-service:8001/api).
func New(cfg config.ProductServiceConfig, logger zerolog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.URL).
			SetTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second).
			SetHeader("Accept", "application/json"),
		logger: logger.With().Str("client", "product-service").Logger(),
	}
}

// GetProduct returns the product with the given ID. It returns
// model.ErrProductNotFound on 404 and model.ErrProductServiceUnavailable on
// any other failure.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get("/products/{id}")
	if err != nil {
		c.logger.Error().Err(err).Str("product_id", id).Msg("product service request failed")
		return nil, fmt.Errorf("%w: %v", model.ErrProductServiceUnavailable, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, model.ErrProductNotFound
	default:
		c.logger.Error().
			Int("status", resp.StatusCode()).
			Str("product_id", id).
			Msg("product service returned an unexpected status")
		return nil, fmt.Errorf("%w: status %d", model.ErrProductServiceUnavailable, resp.StatusCode())
	}

	var product model.Product
	if err := json.Unmarshal(resp.Body(), &product); err != nil {
		c.logger.Error().Err(err).Str("product_id", id).Msg("invalid product service response")
		return nil, fmt.Errorf("%w: invalid response: %v", model.ErrProductServiceUnavailable, err)
	}

	return &product, nil
}
