package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/orbital-control/occ/internal/orbit"
)

// API error sentinels for transport/lookup conditions.
var (
	ErrBadRequest = errors.New("BAD_REQUEST")
	ErrNotFound   = errors.New("NOT_FOUND")
)

// ToAPIError converts an error to an HTTP status code and JSON envelope body.
func ToAPIError(err error) (int, []byte) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case errors.Is(err, orbit.ErrNonPositiveAxis):
		return http.StatusBadRequest, marshalErrorResponse("INVALID_RANGE",
			"Semi-major axis must be positive", nil)
	case errors.Is(err, orbit.ErrNonPositiveMu):
		return http.StatusBadRequest, marshalErrorResponse("INVALID_RANGE",
			"Gravitational parameter must be positive", nil)
	case errors.Is(err, orbit.ErrUnknownBody):
		return http.StatusNotFound, marshalErrorResponse("NOT_FOUND",
			"Central body not found", nil)
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, marshalErrorResponse("BAD_REQUEST",
			"Malformed or missing required parameter", nil)
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, marshalErrorResponse("NOT_FOUND",
			"Resource not found", nil)
	}

	// Unknown errors never leak internals to the client.
	return http.StatusInternalServerError, marshalErrorResponse("INTERNAL",
		"Internal server error", nil)
}

// writeAPIError maps err and writes the envelope body directly.
func writeAPIError(w http.ResponseWriter, err error) {
	status, body := ToAPIError(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func marshalErrorResponse(code, message string, details interface{}) []byte {
	jsonBytes, err := json.Marshal(ErrorResponse(code, message, details))
	if err != nil {
		fallback := map[string]interface{}{
			"result":        "error",
			"code":          "INTERNAL",
			"message":       "Failed to marshal error response",
			"correlationId": generateCorrelationID(),
		}
		jsonBytes, _ = json.Marshal(fallback)
	}
	return jsonBytes
}
