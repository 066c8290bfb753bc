package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopverse/shopverse/internal/auth"
	"github.com/shopverse/shopverse/internal/service"
)

// OrderHandler serves /order-history. Routes must sit behind
// middleware.RequireSession.
type OrderHandler struct {
	svc    *service.OrderService
	logger *slog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		svc:    svc,
		logger: logger,
	}
}

// Get handles GET /order-history and GET /order-history?action=details&id=.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		handleServiceError(w, r, h.logger, service.ErrAuthenticationRequired)
		return
	}

	query := r.URL.Query()
	if query.Get("action") == "details" {
		h.details(w, r, userID)
		return
	}

	page, err := h.svc.List(r.Context(), userID, service.ListOrdersInput{
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", service.DefaultOrderLimit),
		Status:   query.Get("status"),
		DateFrom: query.Get("date_from"),
		DateTo:   query.Get("date_to"),
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", page)
}

func (h *OrderHandler) details(w http.ResponseWriter, r *http.Request, userID int64) {
	orderID := int64(queryInt(r, "id", 0))

	order, err := h.svc.GetByID(r.Context(), userID, orderID)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", order)
}
