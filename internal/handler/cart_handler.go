package handler

import (
	"net/http"

	"shopfront/internal/auth"
	"shopfront/internal/model"
	"shopfront/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart requests for the authenticated user.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(r.Context(), user.UserID)
	if err != nil {
		WriteDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// Add handles POST /api/cart/add requests.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	var req model.AddToCartRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if _, err := h.service.AddItem(r.Context(), user.UserID, &req); err != nil {
		WriteDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Product added to cart successfully"})
}

// Remove handles DELETE /api/cart/remove/{product_id} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveItem(r.Context(), user.UserID, r.PathValue("product_id")); err != nil {
		WriteDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Product removed from cart successfully"})
}

// Clear handles DELETE /api/cart/clear requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), user.UserID); err != nil {
		WriteDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Cart cleared successfully"})
}

func (h *CartHandler) user(w http.ResponseWriter, r *http.Request) (*model.UserToken, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		WriteDomainError(w, model.ErrTokenInvalid, h.logger)
		return nil, false
	}
	return user, true
}
