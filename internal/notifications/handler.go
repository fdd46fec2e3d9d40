package notifications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

const defaultListLimit = 50

// Handler handles HTTP requests for the notification inbox
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new notifications handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /notifications requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var isRead *bool
	if raw := r.URL.Query().Get("is_read"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			isRead = &parsed
		}
	}

	items, err := h.repo.List(r.Context(), principal.ID, isRead, defaultListLimit)
	if err != nil {
		h.logger.Error("failed to list notifications", "error", err, "user_id", principal.ID)
		writeMessage(w, http.StatusInternalServerError, "error fetching notifications")
		return
	}
	if items == nil {
		items = []*Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"notifications": items})
}

// MarkRead handles PUT /notifications/{id}/read requests
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	n, err := h.repo.MarkRead(r.Context(), id, principal.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "notification not found")
			return
		}
		h.logger.Error("failed to mark notification read", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "error updating notification")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"message": "notification marked as read", "notification": n})
}

// MarkAllRead handles PUT /notifications/read-all requests
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	if _, err := h.repo.MarkAllRead(r.Context(), principal.ID); err != nil {
		h.logger.Error("failed to mark all read", "error", err, "user_id", principal.ID)
		writeMessage(w, http.StatusInternalServerError, "error updating notifications")
		return
	}

	writeMessage(w, http.StatusOK, "all notifications marked as read")
}

// Delete handles DELETE /notifications/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id, principal.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "notification not found")
			return
		}
		h.logger.Error("failed to delete notification", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "error deleting notification")
		return
	}

	writeMessage(w, http.StatusOK, "notification deleted")
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
