package router

import (
	"net/http"

	"shopfront/internal/auth"
	"shopfront/internal/handler"
	"shopfront/internal/middleware"

	"github.com/rs/zerolog"
)

// NewProductRouter creates the Product Service router. All routes are public.
func NewProductRouter(
	productHandler *handler.ProductHandler,
	healthHandler *handler.HealthHandler,
	corsOrigins []string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", healthHandler.Root)
	mux.HandleFunc("GET /api/health", healthHandler.Health)

	mux.HandleFunc("GET /api/products", productHandler.List)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)
	mux.HandleFunc("GET /api/categories", productHandler.Categories)

	return wrap(mux, corsOrigins, logger)
}

// NewCartRouter creates the Cart Service router. Cart routes require a
// bearer token; login, health and root do not.
func NewCartRouter(
	cartHandler *handler.CartHandler,
	authHandler *handler.AuthHandler,
	healthHandler *handler.HealthHandler,
	verifier auth.Verifier,
	corsOrigins []string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", healthHandler.Root)
	mux.HandleFunc("GET /api/health", healthHandler.Health)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	authenticated := middleware.Authenticate(verifier, logger)
	mux.Handle("GET /api/cart", authenticated(http.HandlerFunc(cartHandler.Get)))
	mux.Handle("POST /api/cart/add", authenticated(http.HandlerFunc(cartHandler.Add)))
	mux.Handle("DELETE /api/cart/remove/{product_id}", authenticated(http.HandlerFunc(cartHandler.Remove)))
	mux.Handle("DELETE /api/cart/clear", authenticated(http.HandlerFunc(cartHandler.Clear)))

	return wrap(mux, corsOrigins, logger)
}

// wrap applies middleware in order: Recovery -> Logging -> CORS.
func wrap(mux *http.ServeMux, corsOrigins []string, logger zerolog.Logger) http.Handler {
	var handler http.Handler = mux
	handler = middleware.CORS(corsOrigins)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
