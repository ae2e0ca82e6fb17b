package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Number of requests allowed per window
	Window            time.Duration // Time window for rate limiting
	KeyPrefix         string        // Redis key prefix
}

// fixedWindow counts hits per key in Redis. The counter and its expiry are
// set in one transaction so a crash between them cannot leave a key without TTL.
type fixedWindow struct {
	client *redis.Client
	config RateLimitConfig
}

// hit records one request for client and returns the count so far in the
// current window and the time left until it resets.
func (fw fixedWindow) hit(ctx context.Context, client string) (int64, time.Duration, error) {
	key := fw.config.KeyPrefix + ":" + client

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := fw.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, fw.config.Window)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	left := ttl.Val()
	if left <= 0 {
		left = fw.config.Window
	}
	return incr.Val(), left, nil
}

// RateLimitMiddleware limits each client IP to RequestsPerWindow requests per
// fixed window. Requests are let through when Redis is unavailable.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	limiter := fixedWindow{client: redisClient, config: config}
	limit := strconv.Itoa(config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientIP(r)

			count, resetIn, err := limiter.hit(r.Context(), client)
			if err != nil {
				logger.Error("Rate limiter unavailable, allowing request",
					zap.String("client_ip", client),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			remaining := max(config.RequestsPerWindow-int(count), 0)
			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetIn).Unix(), 10))

			if count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("client_ip", client),
					zap.String("path", r.URL.Path),
					zap.Int64("count", count),
				)
				h.Set("Retry-After", strconv.Itoa(int(resetIn.Round(time.Second).Seconds())))
				RespondWithError(w, http.StatusTooManyRequests, MsgTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from the remote address set by chi's RealIP
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
