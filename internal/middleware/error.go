package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

const (
	MsgInvalidBody      = "Invalid request body"
	MsgInternalError    = "Internal server error"
	MsgTooManyRequests  = "Too many requests"
	MsgRouteNotFound    = "Not found"
	MsgMethodNotAllowed = "Method not allowed"
)

// ErrorResponse is the body of every error reply.
// Errors maps field names to messages for validation and conflict failures.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// RespondWithError sends an error response with a message only
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithFieldErrors(w, statusCode, message, nil)
}

// RespondWithFieldErrors sends an error response with per-field messages
func RespondWithFieldErrors(w http.ResponseWriter, statusCode int, message string, errors map[string]string) {
	RespondWithJSON(w, statusCode, ErrorResponse{
		Message: message,
		Errors:  errors,
	})
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					RespondWithError(w, http.StatusInternalServerError, MsgInternalError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// NotFoundHandler answers unknown routes with a JSON error
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, http.StatusNotFound, MsgRouteNotFound)
}

// MethodNotAllowedHandler answers unsupported methods with a JSON error
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// RespondNoContent sends an empty 204 response
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
