// Package handlers exposes the HTTP surface of the service.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Ankita1800/chatdb-engine/pkg/apperrors"
)

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ErrorResponse writes a JSON error body of the form {"detail": "..."}.
func ErrorResponse(w http.ResponseWriter, statusCode int, detail string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

// writeError maps a service error onto the HTTP status taxonomy and writes
// the {"detail"} body. Unrecognized errors become 500 with a generic detail
// so internals never leak.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		_ = ErrorResponse(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		_ = ErrorResponse(w, http.StatusNotFound, "dataset not found")
	case errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, apperrors.ErrTranslationFailed),
		errors.Is(err, apperrors.ErrExecutionFailed):
		_ = ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		_ = ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}
