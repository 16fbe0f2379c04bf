package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code. The status
// is committed before encoding, so an encode failure only truncates the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes a {"error", "message"} response. Unauthorised responses
// carry a WWW-Authenticate challenge.
func WriteError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// WriteDomainError maps err to a status code. Domain errors keep their code
// and message; anything else becomes an opaque 500.
func WriteDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("unhandled error")
		WriteError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}

	WriteError(w, StatusFor(domainErr.Code), domainErr.Code, domainErr.Message, logger)
}

// StatusFor returns the HTTP status for a domain error code.
func StatusFor(code string) int {
	switch code {
	case model.ErrCodeUnauthorised, model.ErrCodeTokenExpired, model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeProductNotFound, model.ErrCodeCartNotFound, model.ErrCodeCartItemNotFound:
		return http.StatusNotFound
	case model.ErrCodeInsufficientStock,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeInvalidJSON,
		model.ErrCodeMissingField,
		model.ErrCodeInvalidParameter:
		return http.StatusBadRequest
	case model.ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrCodeNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a body holding exactly one JSON value into v, writing a
// 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, logger zerolog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	err := dec.Decode(v)
	if err == nil {
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after JSON value")
		}
	}
	if err != nil {
		logger.Debug().Err(err).Msg("invalid request body")
		WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}
