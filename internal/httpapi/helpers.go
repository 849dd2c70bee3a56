// Package httpapi exposes the engine's operations over chi-routed JSON
// endpoints, per SPEC_FULL.md §6.1. This is the only layer that decides
// whether a validation result should trigger webhook events (§9 "Event
// dispatch decoupling").
package httpapi

import (
	"encoding/json"
	"net/http"

	"pharmaguard/internal/apperr"
	"pharmaguard/internal/middleware"
)

// respondJSON writes a JSON response, grounded on the lineage's
// handler/api.respondJSON.
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondOK(w http.ResponseWriter, data interface{}) {
	respondJSON(w, data, http.StatusOK)
}

func respondCreated(w http.ResponseWriter, data interface{}) {
	respondJSON(w, data, http.StatusCreated)
}

func respondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// respondErr maps an error to its apperr.Kind (Internal if untagged) and
// writes the corresponding JSON error body.
func respondErr(w http.ResponseWriter, err error) {
	middleware.JSONAppError(w, err)
}

func respondBadRequest(w http.ResponseWriter, message string) {
	middleware.JSONError(w, message, http.StatusBadRequest)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.InvalidArgumentf("malformed request body: %v", err)
	}
	return nil
}

// SuccessResponse is a generic success envelope, grounded on the lineage's
// handler/api.SuccessResponse.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse wraps a list payload with its count.
type ListResponse struct {
	Data       interface{} `json:"data"`
	TotalCount int         `json:"total_count"`
}
