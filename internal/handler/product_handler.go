package handler

import (
	"net/http"
	"strconv"

	"shopfront/internal/model"
	"shopfront/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products requests with category filter and
// pagination.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := model.ProductFilter{
		Category: query.Get("category"),
		Limit:    service.DefaultProductLimit,
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid limit parameter", h.logger)
			return
		}
		filter.Limit = limit
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid offset parameter", h.logger)
			return
		}
		filter.Offset = offset
	}

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		WriteDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Categories handles GET /api/categories requests.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		WriteDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}
