package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsHandler(origins []string, dev bool) http.Handler {
	return CORSMiddleware(origins, dev)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORSMiddleware_AllowsConfiguredOrigin(t *testing.T) {
	handler := corsHandler([]string{"http://localhost:5173"}, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/items", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestCORSMiddleware_RejectsUnknownOrigin(t *testing.T) {
	handler := corsHandler([]string{"http://localhost:5173"}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_DevelopmentAllowsAnyOrigin(t *testing.T) {
	handler := corsHandler([]string{"http://localhost:5173"}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("Origin", "http://anything.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsOptions(t *testing.T) {
	configured := []string{"http://localhost:5173"}

	opts := corsOptions(configured, false)
	assert.Equal(t, configured, opts.AllowedOrigins)
	assert.False(t, opts.AllowCredentials)
	assert.NotContains(t, opts.AllowedMethods, http.MethodPatch)

	assert.Equal(t, []string{"*"}, corsOptions(nil, false).AllowedOrigins)
	assert.Equal(t, []string{"*"}, corsOptions(configured, true).AllowedOrigins)
	assert.Equal(t, []string{"http://localhost:5173"}, configured)
}
