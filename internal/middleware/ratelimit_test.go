package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLimitedHandler(t *testing.T, limit int) (http.Handler, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	config := RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            time.Minute,
		KeyPrefix:         "test_rate_limit",
	}

	handler := RateLimitMiddleware(redisClient, config, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)
	return handler, mr
}

func requestFrom(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.RemoteAddr = remoteAddr
	return req
}

// Feature: inventory-items, Property 10: Rate limiting blocks excessive requests
func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("excessive requests are blocked with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("Failed to start miniredis: %v", err)
				return false
			}
			defer mr.Close()

			redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			defer redisClient.Close()

			config := RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            time.Minute,
				KeyPrefix:         "test_rate_limit",
			}

			handler := RateLimitMiddleware(redisClient, config, zap.NewNop())(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}),
			)

			successCount, blockedCount := 0, 0
			for i := 0; i < requestsPerWindow+excessRequests; i++ {
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, requestFrom("192.168.1.100:5000"))

				switch w.Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					blockedCount++
				}
			}

			// Should allow exactly requestsPerWindow requests and block the rest
			return successCount == requestsPerWindow && blockedCount == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_HeadersAndBody(t *testing.T) {
	handler, _ := newLimitedHandler(t, 2)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	handler.ServeHTTP(httptest.NewRecorder(), requestFrom("10.0.0.1:1234"))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, MsgTooManyRequests, body.Message)
}

func TestRateLimit_ClientsAreCountedSeparately(t *testing.T) {
	handler, _ := newLimitedHandler(t, 1)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, w.Code)

	// same host, different source port
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.2:1111"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_WindowExpires(t *testing.T) {
	handler, mr := newLimitedHandler(t, 1)

	handler.ServeHTTP(httptest.NewRecorder(), requestFrom("10.0.0.1:1111"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:1111"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	mr.FastForward(time.Minute + time.Second)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_FailsOpenWhenRedisIsDown(t *testing.T) {
	handler, mr := newLimitedHandler(t, 1)
	mr.Close()

	for range 3 {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.1:1111"))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
