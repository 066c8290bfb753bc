package middleware

import (
	"net/http"
	"slices"

	"github.com/shopverse/shopverse/internal/handler/dto"
)

// SecurityConfig holds configuration for security headers.
type SecurityConfig struct {
	// IsDevelopment disables HSTS so plain-HTTP local setups keep working.
	IsDevelopment bool
	// MaxRequestBodySize is the max allowed request body in bytes.
	MaxRequestBodySize int64
}

// DefaultSecurityConfig returns production settings with a 1MB body limit.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{MaxRequestBodySize: 1 << 20}
}

const hstsValue = "max-age=31536000; includeSubDomains; preload"

// jsonAPIHeaders go on every response. Only JSON is served, so the CSP
// allows nothing, and responses carry per-session data, so nothing is cached.
var jsonAPIHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"X-XSS-Protection", "0"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=()"},
	{"Cache-Control", "no-store"},
}

// Security sets the response hardening headers, plus HSTS outside development.
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	headers := jsonAPIHeaders
	if !cfg.IsDevelopment {
		headers = append(slices.Clone(headers), [2]string{"Strict-Transport-Security", hstsValue})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range headers {
				h.Set(kv[0], kv[1])
			}
			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodySize rejects declared oversize bodies with a 413 envelope and caps
// streamed ones; the handler then sees *http.MaxBytesError from its reads.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > maxBytes {
				dto.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}
