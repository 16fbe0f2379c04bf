package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{model.ErrCodeUnauthorised, http.StatusUnauthorized},
		{model.ErrCodeTokenExpired, http.StatusUnauthorized},
		{model.ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{model.ErrCodeProductNotFound, http.StatusNotFound},
		{model.ErrCodeCartNotFound, http.StatusNotFound},
		{model.ErrCodeCartItemNotFound, http.StatusNotFound},
		{model.ErrCodeInsufficientStock, http.StatusBadRequest},
		{model.ErrCodeInvalidQuantity, http.StatusBadRequest},
		{model.ErrCodeInvalidJSON, http.StatusBadRequest},
		{model.ErrCodeMissingField, http.StatusBadRequest},
		{model.ErrCodeInvalidParameter, http.StatusBadRequest},
		{model.ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{model.ErrCodeNotImplemented, http.StatusNotImplemented},
		{model.ErrCodeInternalError, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusFor(tt.code))
		})
	}
}

func TestWriteDomainError_Wrapped(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("validating product: %w", model.ErrTokenExpired)

	WriteDomainError(rec, err, zerolog.Nop())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"error":"TOKEN_EXPIRED","message":"Token has expired"}`, rec.Body.String())
}

func TestWriteJSON_EncodeFailureKeepsStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		writeJSON(rec, http.StatusCreated, map[string]any{"total": make(chan int)})
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Body.String())
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler("cart-service")

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"cart-service"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"service":"cart-service","version":"1.0.0","status":"running"}`, rec.Body.String())
}
