package reviews

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// Handler exposes reviews over HTTP. Listing a doctor's reviews is
// public; writing requires authentication.
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

// Create handles POST /api/reviews.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rev, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"message": "review submitted",
		"review":  rev,
	})
}

// ListByDoctor handles GET /api/reviews/doctor/{doctorID}.
func (h *Handler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListByDoctor(r.Context(), chi.URLParam(r, "doctorID"))
	if err != nil {
		h.logger.Error("listing reviews failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"reviews": result})
}

// Respond handles PUT /api/reviews/{id}/respond.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rev, err := h.service.Respond(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "response recorded",
		"review":  rev,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingAppointment),
		errors.Is(err, ErrInvalidRating),
		errors.Is(err, ErrMissingResponse),
		errors.Is(err, ErrNotCompleted):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateReview):
		writeMessage(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("review request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
