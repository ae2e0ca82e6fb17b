package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fptthinhgreenwich/qlkhohang/internal/config"
	"github.com/fptthinhgreenwich/qlkhohang/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: "0", Env: "test"},
		Store:     config.StoreConfig{Driver: config.DriverMemory},
		RateLimit: config.RateLimitConfig{Requests: 100, WindowSeconds: 60},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func serve(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_MountsItemsAtRootAndAPI(t *testing.T) {
	srv := NewServer(testConfig(), zap.NewNop(), repository.NewMemoryItemRepository(), nil, nil)

	w := serve(t, srv.Handler, http.MethodPost, "/api/items", map[string]any{
		"sku": "SKU-0001", "name": "USB Keyboard", "quantity": 25, "unitPrice": "12.50", "status": "active",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = serve(t, srv.Handler, http.MethodGet, "/items/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(t, srv.Handler, http.MethodGet, "/api/items?search=keyboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestServer_HealthEndpoints(t *testing.T) {
	srv := NewServer(testConfig(), zap.NewNop(), repository.NewMemoryItemRepository(), nil, nil)

	for _, path := range []string{"/health", "/health/ready", "/api/health"} {
		w := serve(t, srv.Handler, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestServer_UnknownRoutesAnswerJSON(t *testing.T) {
	srv := NewServer(testConfig(), zap.NewNop(), repository.NewMemoryItemRepository(), nil, nil)

	w := serve(t, srv.Handler, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, w.Body.String())

	w = serve(t, srv.Handler, http.MethodPatch, "/items", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := NewServer(testConfig(), zap.NewNop(), repository.NewMemoryItemRepository(), nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/items", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RateLimitWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 2, WindowSeconds: 60}

	srv := NewServer(cfg, zap.NewNop(), repository.NewMemoryItemRepository(), nil, redisClient)
	t.Cleanup(func() { srv.Close() })

	for i := 0; i < 2; i++ {
		w := serve(t, srv.Handler, http.MethodGet, "/items", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(t, srv.Handler, http.MethodGet, "/items", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"message":"Too many requests"}`, w.Body.String())
}

func TestServer_CloseRunsStoreCloser(t *testing.T) {
	closed := false
	srv := NewServer(testConfig(), zap.NewNop(), repository.NewMemoryItemRepository(), func() { closed = true }, nil)

	require.NoError(t, srv.Close())
	assert.True(t, closed)
}
