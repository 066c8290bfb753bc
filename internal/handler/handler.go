// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopverse/shopverse/internal/handler/dto"
	"github.com/shopverse/shopverse/internal/middleware"
	"github.com/shopverse/shopverse/internal/service"
)

// Version is reported by the index endpoint.
const Version = "1.0.0"

// errInvalidJSON means the body was empty, malformed or not a JSON object.
var errInvalidJSON = errors.New("invalid JSON input")

// Handler serves the router-level endpoints.
type Handler struct {
	logger *slog.Logger
}

// New creates a new Handler instance.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Index describes the API.
// GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "Shopverse API", map[string]string{
		"version": Version,
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	dto.WriteError(w, http.StatusNotFound, "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	dto.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a success envelope. An empty message becomes "Success".
func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	if message == "" {
		message = "Success"
	}
	dto.WriteEnvelope(w, status, dto.Envelope{Success: true, Message: message, Data: data})
}

// decodeJSON reads a JSON object from the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return errInvalidJSON
	}

	start := firstNonSpace(body)
	if start < 0 || body[start] != '{' {
		return errInvalidJSON
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errInvalidJSON
	}
	return nil
}

func firstNonSpace(b []byte) int {
	for i, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return i
	}
	return -1
}

// queryInt parses the leading integer of a query value. Absent parameters
// yield def; values without leading digits yield 0.
func queryInt(r *http.Request, key string, def int) int {
	raw, ok := r.URL.Query()[key]
	if !ok || len(raw) == 0 {
		return def
	}

	s := raw[0]
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// handleServiceError maps service errors to envelope responses. Unknown
// errors are logged and reported with a generic message.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var validationErr *service.ValidationError
	var conflictErr *service.ConflictError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, errInvalidJSON):
		dto.WriteError(w, http.StatusBadRequest, "Invalid JSON input")
	case errors.As(err, &maxErr):
		dto.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.As(err, &validationErr):
		dto.WriteError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &conflictErr):
		dto.WriteError(w, http.StatusConflict, conflictErr.Message)
	case errors.Is(err, service.ErrEmailTaken):
		dto.WriteError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		dto.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrAuthenticationRequired):
		dto.WriteError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, service.ErrUserNotFound):
		dto.WriteError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrOrderNotFound):
		dto.WriteError(w, http.StatusNotFound, "Order not found")
	default:
		logger.Error("internal_error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		dto.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
