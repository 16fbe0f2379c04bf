package handler

import (
	"net/http"
)

// Version is reported by the service info endpoint.
const Version = "1.0.0"

// HealthHandler serves the unauthenticated liveness endpoints.
type HealthHandler struct {
	service string
}

// NewHealthHandler creates a health handler for the named service.
func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health handles GET /api/health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.service,
	})
}

// Root handles GET / requests.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": h.service,
		"version": Version,
		"status":  "running",
	})
}
