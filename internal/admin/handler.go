package admin

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

// Handler exposes the admin surface. Every route is admin-gated by the
// router, so handlers do not re-check the role.
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

// Dashboard handles GET /api/admin/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("building dashboard failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// ListUsers handles GET /api/admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := users.ListFilter{Search: query.Get("search")}
	if raw := query.Get("role"); raw != "" {
		role, ok := auth.ParseRole(raw)
		if !ok {
			writeMessage(w, http.StatusBadRequest, "unknown role")
			return
		}
		filter.Role = role
	}
	if raw := query.Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "active must be a boolean")
			return
		}
		filter.Active = &active
	}
	if raw := query.Get("status"); raw != "" {
		switch raw {
		case "active":
			active := true
			filter.Active = &active
		case "suspended":
			active := false
			filter.Active = &active
		default:
			writeMessage(w, http.StatusBadRequest, "status must be active or suspended")
			return
		}
	}
	filter.Page, _ = strconv.Atoi(query.Get("page"))
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))

	result, total, err := h.service.ListUsers(r.Context(), filter)
	if err != nil {
		h.logger.Error("listing users failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"users": result,
		"total": total,
	})
}

// SetUserStatus handles PUT /api/admin/users/{id}/status.
func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.service.SetUserStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "user status updated",
		"user":    u,
	})
}

// Analytics handles GET /api/admin/analytics.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Analytics(r.Context())
	if err != nil {
		h.logger.Error("building analytics failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "failed to build analytics")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// CreateHospital handles POST /api/admin/hospitals.
func (h *Handler) CreateHospital(w http.ResponseWriter, r *http.Request) {
	var req HospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	hospital, err := h.service.CreateHospital(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"hospital": hospital})
}

// ListHospitals handles GET /api/admin/hospitals.
func (h *Handler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListHospitals(r.Context())
	if err != nil {
		h.logger.Error("listing hospitals failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "failed to list hospitals")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"hospitals": result})
}

// CreateDepartment handles POST /api/admin/departments.
func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req DepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	department, err := h.service.CreateDepartment(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"department": department})
}

// ListDepartments handles GET /api/admin/departments.
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListDepartments(r.Context(), r.URL.Query().Get("hospital_id"))
	if err != nil {
		h.logger.Error("listing departments failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "failed to list departments")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"departments": result})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingName),
		errors.Is(err, ErrMissingAddress),
		errors.Is(err, ErrMissingHospital):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, users.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "user not found")
	case errors.Is(err, ErrHospitalNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("admin request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
