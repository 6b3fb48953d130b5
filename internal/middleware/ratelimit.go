// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter provides per-IP rate limiting using fixed windows counted
// in Valkey, so the limit holds across replicas. When Valkey is
// unreachable the limiter fails open: requests pass through with a
// warning rather than taking the API down with the cache.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// allow counts a request for key and reports whether it is within the
// limit for the current window.
func (rl *RateLimiter) allow(r *http.Request, key string) (bool, error) {
	ctx := r.Context()
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(rl.window.Seconds()))

	n, err := rl.client.Incr(ctx, bucket).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// First hit in this window owns the expiry.
		if err := rl.client.Expire(ctx, bucket, rl.window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(rl.limit), nil
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		ok, err := rl.allow(r, ip)
		if err != nil {
			slog.Warn("rate limiter unavailable, failing open", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message":"too many requests"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	// Check X-Forwarded-For first (may contain multiple IPs).
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first (leftmost) IP — the original client.
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP.
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to RemoteAddr (strip port).
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
