package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopverse/shopverse/internal/auth"
	"github.com/shopverse/shopverse/internal/handler/dto"
	"github.com/shopverse/shopverse/internal/service"
	"github.com/shopverse/shopverse/internal/session"
)

// Authenticator resolves a session id to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, sessionID string) (int64, error)
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger        *slog.Logger
	Authenticator Authenticator
	Cookie        session.CookieOptions
}

// RequireSession rejects requests without a live session cookie.
// On success the user id and session id are stored in the request context.
func RequireSession(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := session.ReadCookie(r, cfg.Cookie)

			userID, err := cfg.Authenticator.Authenticate(r.Context(), sessionID)
			if err != nil {
				if errors.Is(err, service.ErrAuthenticationRequired) {
					dto.WriteError(w, http.StatusUnauthorized, "Authentication required")
					return
				}
				cfg.Logger.Error("session lookup failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				dto.WriteError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			NoteUserID(r.Context(), userID)
			ctx := auth.ContextWithUserID(r.Context(), userID)
			ctx = auth.ContextWithSessionID(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
