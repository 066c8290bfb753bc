package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopverse/shopverse/internal/handler/dto"
	"github.com/shopverse/shopverse/internal/middleware"
	"github.com/shopverse/shopverse/internal/service"
	"github.com/shopverse/shopverse/internal/session"
)

// AuthHandler serves /auth, dispatching on the action query parameter.
type AuthHandler struct {
	svc    *service.AuthService
	cookie session.CookieOptions
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, cookie session.CookieOptions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		cookie: cookie,
		logger: logger,
	}
}

// Post handles POST /auth?action=login|register|logout.
func (h *AuthHandler) Post(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "login":
		h.login(w, r)
	case "register":
		h.register(w, r)
	case "logout":
		h.logout(w, r)
	default:
		dto.WriteError(w, http.StatusBadRequest, "Invalid action")
	}
}

// Get handles GET /auth?action=user.
func (h *AuthHandler) Get(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "user":
		h.whoAmI(w, r)
	default:
		dto.WriteError(w, http.StatusBadRequest, "Invalid action")
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	result, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	middleware.NoteUserID(r.Context(), result.User.ID)
	session.SetCookie(w, result.Session, h.cookie)
	writeSuccess(w, http.StatusOK, "Login successful", result.User)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	result, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	middleware.NoteUserID(r.Context(), result.User.ID)
	session.SetCookie(w, result.Session, h.cookie)
	writeSuccess(w, http.StatusOK, "Registration successful", result.User)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	sessionID := session.ReadCookie(r, h.cookie)
	// The client is signed out even when the stored session cannot be
	// removed; the server-side record then expires with its TTL.
	session.ClearCookie(w, h.cookie)
	if err := h.svc.Logout(r.Context(), sessionID); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Logout successful", struct{}{})
}

func (h *AuthHandler) whoAmI(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.WhoAmI(r.Context(), session.ReadCookie(r, h.cookie))
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationRequired) {
			dto.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", user)
}
