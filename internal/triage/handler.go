package triage

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// Handler exposes symptom checks over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Check handles POST /api/symptoms/check.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	check, err := h.service.Check(r.Context(), caller, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"check": check})
}

// History handles GET /api/symptoms/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := h.service.History(r.Context(), caller, limit)
	if err != nil {
		h.logger.Error("listing symptom checks failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "failed to list symptom checks")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"checks": result})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoSymptoms):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInference):
		writeMessage(w, http.StatusInternalServerError, err.Error())
	default:
		h.logger.Error("symptom check failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "server error during symptom check")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
