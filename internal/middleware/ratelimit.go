package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/shopverse/shopverse/internal/cache"
	"github.com/shopverse/shopverse/internal/handler/dto"
	"github.com/shopverse/shopverse/internal/metrics"
)

// AuthLimiter consumes tokens from per-IP auth buckets.
type AuthLimiter interface {
	CheckAuthRateLimit(ctx context.Context, scope, ip string, ratePerSecond float64, burst int) (*cache.RateLimitResult, error)
}

// RateLimitConfig holds configuration for rate limiting middleware.
type RateLimitConfig struct {
	Logger  *slog.Logger
	Limiter AuthLimiter
	Metrics metrics.Recorder
	Enabled bool
	// RPS is the refill rate in requests per second.
	RPS   float64
	Burst int
}

// limitedAuthActions are the credential-checking actions worth throttling.
var limitedAuthActions = map[string]bool{
	"login":    true,
	"register": true,
}

// RateLimitAuth throttles login and registration attempts per client IP.
// Other auth actions pass through untouched. Limiter errors fail open.
func RateLimitAuth(cfg RateLimitConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			action := r.URL.Query().Get("action")
			if !cfg.Enabled || cfg.Limiter == nil || r.Method != http.MethodPost || !limitedAuthActions[action] {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)

			result, err := cfg.Limiter.CheckAuthRateLimit(r.Context(), action, ip, cfg.RPS, cfg.Burst)
			if err != nil {
				cfg.Logger.Error("auth rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("action", action),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				retryAfter := retryAfterSeconds(result.RetryAfter)
				recorder.IncRateLimited()
				cfg.Logger.Warn("rate limit exceeded",
					slog.String("type", "auth"),
					slog.String("action", action),
					slog.String("ip", ip),
					slog.Int("retry_after_seconds", retryAfter),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				dto.WriteError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds rounds up to whole seconds, never below one.
func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// getClientIP returns the host part of RemoteAddr. Forwarded headers count
// only when the router mounts chi's RealIP, which rewrites RemoteAddr.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
