package handler

import (
	"net/http"

	"shopfront/internal/model"
	"shopfront/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles login requests.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, model.ErrCodeMissingField, "username and password are required", h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		WriteDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
