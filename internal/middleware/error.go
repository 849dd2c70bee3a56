package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"

	"pharmaguard/internal/apperr"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// RecoverMiddleware recovers from panics and returns a 500 error
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v\n%s", err, debug.Stack())

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error:   "internal_server_error",
					Message: "An unexpected error occurred",
					Code:    http.StatusInternalServerError,
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// JSONError writes an error response in JSON format
func JSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
}

// JSONAppError maps a tagged apperr.Kind to its HTTP status and writes the
// corresponding JSON error body, generalizing the lineage's plain-string
// JSONError into the closed error model (SPEC_FULL.md §7).
func JSONAppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	JSONError(w, err.Error(), apperr.HTTPStatus(kind))
}

// NotFoundHandler returns a JSON 404 response
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, "The requested resource was not found", http.StatusNotFound)
	}
}

// MethodNotAllowedHandler returns a JSON 405 response
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
