package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopverse/shopverse/internal/auth"
	"github.com/shopverse/shopverse/internal/session"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// accessEntry collects fields that are only known deeper in the chain.
type accessEntry struct {
	userID int64
}

type accessEntryKey struct{}

// NoteUserID attaches the authenticated user to the request's access log line.
// It is a no-op outside Logger.
func NoteUserID(ctx context.Context, userID int64) {
	if e, ok := ctx.Value(accessEntryKey{}).(*accessEntry); ok {
		e.userID = userID
	}
}

// Logger returns a middleware that writes one access log line per request.
// The session cookie is logged only as a fingerprint.
func Logger(logger *slog.Logger, cookie session.CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := &accessEntry{}
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), accessEntryKey{}, entry)))

			attrs := []slog.Attr{
				slog.String("request_id", GetRequestID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", wrapped.status),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
				slog.String("client_ip", getClientIP(r)),
				slog.String("user_agent", r.UserAgent()),
			}
			if action := r.URL.Query().Get("action"); action != "" {
				attrs = append(attrs, slog.String("action", action))
			}
			if entry.userID > 0 {
				attrs = append(attrs, slog.Int64("user_id", entry.userID))
			}
			if sid := session.ReadCookie(r, cookie); sid != "" {
				attrs = append(attrs, slog.String("session", auth.Fingerprint(sid)))
			}

			level := slog.LevelInfo
			if wrapped.status >= 500 {
				level = slog.LevelError
			} else if wrapped.status >= 400 {
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http request", attrs...)
		})
	}
}
