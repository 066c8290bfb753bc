package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopverse/shopverse/internal/auth"
	"github.com/shopverse/shopverse/internal/handler/dto"
	"github.com/shopverse/shopverse/internal/service"
)

// ProfileHandler serves /profile. Routes must sit behind
// middleware.RequireSession.
type ProfileHandler struct {
	svc    *service.ProfileService
	logger *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		svc:    svc,
		logger: logger,
	}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		handleServiceError(w, r, h.logger, service.ErrAuthenticationRequired)
		return
	}

	user, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", user)
}

// Update handles PUT /profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		handleServiceError(w, r, h.logger, service.ErrAuthenticationRequired)
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	user, err := h.svc.Update(r.Context(), userID, service.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Profile updated successfully", user)
}
