package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/cfranzen/eightball/pkg/domain"
	"github.com/cfranzen/eightball/pkg/eightball"
)

// ErrorResponse represents a standard JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// WriteJSONError writes a JSON error response with the given status code and message
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(response)
}

// WriteStoreError maps a store or service error to an HTTP error response.
// Client-caused failures become 4xx, store failures 5xx; nothing crashes
// the listening process.
func WriteStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, eightball.ErrUnknownCategory):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, eightball.ErrNoAccount):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, eightball.ErrAccountExists):
		WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		WriteJSONError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("ERROR: Unexpected internal error: %v", err)
		WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
