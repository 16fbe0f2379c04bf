package productclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopfront/internal/config"
	"shopfront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(config.ProductServiceConfig{URL: server.URL + "/api", TimeoutSeconds: 1}, zerolog.Nop())
}

func TestClient_GetProduct(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedErr error
	}{
		{
			name:   "Found",
			status: http.StatusOK,
			body:   `{"id":"1","name":"Wireless Headphones","description":"d","price":199.99,"category":"Electronics","image_url":"u","stock":50}`,
		},
		{
			name:        "Not found",
			status:      http.StatusNotFound,
			body:        `{"error":"PRODUCT_NOT_FOUND","message":"Product with id 1 not found"}`,
			expectedErr: model.ErrProductNotFound,
		},
		{
			name:        "Server error",
			status:      http.StatusInternalServerError,
			body:        `{}`,
			expectedErr: model.ErrProductServiceUnavailable,
		},
		{
			name:        "Bad gateway",
			status:      http.StatusBadGateway,
			expectedErr: model.ErrProductServiceUnavailable,
		},
		{
			name:        "Malformed body",
			status:      http.StatusOK,
			body:        `{"id":`,
			expectedErr: model.ErrProductServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			product, err := client.GetProduct(context.Background(), "1")

			assert.Equal(t, "/api/products/1", gotPath)
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedErr), "got %v", err)
				assert.Nil(t, product)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Wireless Headphones", product.Name)
			assert.Equal(t, 199.99, product.Price)
			assert.Equal(t, 50, product.Stock)
		})
	}
}

func TestClient_GetProduct_EscapesID(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetProduct(context.Background(), "a/b")
	assert.ErrorIs(t, err, model.ErrProductNotFound)
	assert.Equal(t, "/api/products/a%2Fb", gotPath)
}

func TestClient_GetProduct_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(config.ProductServiceConfig{URL: url, TimeoutSeconds: 1}, zerolog.Nop())

	_, err := client.GetProduct(context.Background(), "1")
	assert.ErrorIs(t, err, model.ErrProductServiceUnavailable)
}

func TestClient_GetProduct_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(3 * time.Second):
		case <-r.Context().Done():
		}
	})

	start := time.Now()
	_, err := client.GetProduct(context.Background(), "1")
	assert.ErrorIs(t, err, model.ErrProductServiceUnavailable)
	assert.Less(t, time.Since(start), 3*time.Second)
}
