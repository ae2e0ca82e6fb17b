package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	corsHeaders = []string{"Accept", "Content-Type", "X-Request-Id"}
	// Rate limit headers are read by the browser client to back off.
	corsExposed = []string{"X-Request-Id", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"}
)

func corsOptions(allowedOrigins []string, isDevelopment bool) cors.Options {
	origins := slices.Clone(allowedOrigins)
	if isDevelopment || len(origins) == 0 {
		origins = []string{"*"}
	}

	// No cookies or auth headers are exchanged, so credentials stay disabled.
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: corsMethods,
		AllowedHeaders: corsHeaders,
		ExposedHeaders: corsExposed,
		MaxAge:         300,
	}
}

// CORSMiddleware lets the browser client call the API from its own origin.
// Any origin is accepted in development or when none is configured.
func CORSMiddleware(allowedOrigins []string, isDevelopment bool) func(http.Handler) http.Handler {
	return cors.Handler(corsOptions(allowedOrigins, isDevelopment))
}
