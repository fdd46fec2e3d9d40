package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// Handler handles HTTP requests for authentication
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new auth handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Signup handles POST /auth/{role}/signup requests
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	role, ok := auth.ParseRole(chi.URLParam(r, "role"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "unknown role")
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Role = role

	user, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			writeMessage(w, http.StatusConflict, err.Error())
		case errors.Is(err, ErrMissingName),
			errors.Is(err, ErrMissingEmail),
			errors.Is(err, ErrMissingPassword),
			errors.Is(err, ErrMissingSpecialization),
			errors.Is(err, ErrMissingPhone):
			writeMessage(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("signup failed", "error", err, "role", role)
			writeMessage(w, http.StatusInternalServerError, "server error during signup")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"message": "registered successfully",
		"user":    user,
	})
}

// Login handles POST /auth/{role}/login requests
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	role, ok := auth.ParseRole(chi.URLParam(r, "role"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "unknown role")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Role = role

	user, token, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeMessage(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInvalidCredentials):
			writeMessage(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrDoctorNotApproved), errors.Is(err, ErrAccountSuspended):
			writeMessage(w, http.StatusForbidden, err.Error())
		default:
			h.logger.Error("login failed", "error", err, "role", role)
			writeMessage(w, http.StatusInternalServerError, "server error during login")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "login successful",
		"token":   token,
		"user":    user,
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
