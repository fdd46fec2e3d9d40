package doctors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/users"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// Handler exposes the doctor directory over HTTP. Listing and profiles
// are public; edits, approval, and deletion sit behind role gates.
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

// List handles GET /api/doctors. Only approved doctors appear.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	approved := true
	filter := users.DoctorFilter{
		Specialization: r.URL.Query().Get("specialization"),
		Search:         r.URL.Query().Get("search"),
		Approved:       &approved,
	}
	if raw := r.URL.Query().Get("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "min_rating must be a number")
			return
		}
		filter.MinRating = minRating
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("listing doctors failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "failed to list doctors")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"doctors": result})
}

// Get handles GET /api/doctors/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// Update handles PUT /api/doctors/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var upd users.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doctor, err := h.service.Update(r.Context(), caller, chi.URLParam(r, "id"), upd)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "profile updated",
		"doctor":  doctor,
	})
}

type approvalRequest struct {
	Approved bool `json:"approved"`
}

// Approve handles PUT /api/doctors/{id}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doctor, err := h.service.SetApproval(r.Context(), chi.URLParam(r, "id"), req.Approved)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "approval updated",
		"doctor":  doctor,
	})
}

// Delete handles DELETE /api/doctors/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "doctor deleted")
}

// GetAvailability handles GET /api/doctors/{id}/availability.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	av, err := h.service.Availability(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"availability": av})
}

type availabilityRequest struct {
	Slots []Slot `json:"slots"`
}

// SetAvailability handles POST /api/doctors/{id}/availability.
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	av, err := h.service.SetAvailability(r.Context(), caller, chi.URLParam(r, "id"), req.Slots)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":      "availability updated",
		"availability": av,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidSlotDay), errors.Is(err, ErrInvalidSlotTime):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, users.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "doctor not found")
	default:
		h.logger.Error("doctor request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
