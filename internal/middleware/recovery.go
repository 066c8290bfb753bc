package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/shopverse/shopverse/internal/handler/dto"
)

// Recoverer turns a handler panic into a 500 envelope and one error log line
// with the request id, the signed-in user when known, and the stack.
// http.ErrAbortHandler is re-raised so net/http aborts the response quietly.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				attrs := []slog.Attr{
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				}
				if e, ok := r.Context().Value(accessEntryKey{}).(*accessEntry); ok && e.userID > 0 {
					attrs = append(attrs, slog.Int64("user_id", e.userID))
				}
				logger.LogAttrs(r.Context(), slog.LevelError, "panic recovered", attrs...)

				dto.WriteError(w, http.StatusInternalServerError, "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
