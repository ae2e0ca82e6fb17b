package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// DefaultMiddlewareStack returns the chi middleware every route shares
func DefaultMiddlewareStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.CleanPath,
		middleware.Recoverer,
		middleware.Compress(5, "application/json"),
	}
}
