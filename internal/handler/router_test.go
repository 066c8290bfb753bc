package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shopverse/shopverse/internal/cache"
)

// recordingLimiter allows every request and remembers the client keys it saw.
type recordingLimiter struct {
	mu  sync.Mutex
	ips []string
}

func (l *recordingLimiter) CheckAuthRateLimit(_ context.Context, _, ip string, _ float64, _ int) (*cache.RateLimitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ips = append(l.ips, ip)
	return &cache.RateLimitResult{Allowed: true, Remaining: 1, ResetAt: time.Now()}, nil
}

func (l *recordingLimiter) seen() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ips...)
}

func loginFrom(t *testing.T, router http.Handler, remoteAddr, forwardedFor string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/auth?action=login",
		strings.NewReader(`{"email":"nobody@example.com","password":"wrong-password"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.RemoteAddr = remoteAddr

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ForwardedHeadersIgnoredByDefault(t *testing.T) {
	limiter := &recordingLimiter{}
	env := newAPIEnv(t, func(cfg *RouterConfig) {
		cfg.RateLimit.Limiter = limiter
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RPS = 1
		cfg.RateLimit.Burst = 10
	})

	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		loginFrom(t, env.router, "203.0.113.9:40000", spoofed)
	}

	assert.Equal(t, []string{"203.0.113.9", "203.0.113.9", "203.0.113.9"}, limiter.seen(),
		"one client must map to one bucket whatever it sends in X-Forwarded-For")
}

func TestRouter_ForwardedHeadersTrustedWhenEnabled(t *testing.T) {
	limiter := &recordingLimiter{}
	env := newAPIEnv(t, func(cfg *RouterConfig) {
		cfg.RateLimit.Limiter = limiter
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RPS = 1
		cfg.RateLimit.Burst = 10
		cfg.TrustForwardedHeaders = true
	})

	loginFrom(t, env.router, "10.0.0.2:40000", "198.51.100.7")

	assert.Equal(t, []string{"198.51.100.7"}, limiter.seen())
}
