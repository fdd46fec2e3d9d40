package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/carelink-api/internal/admin"
	"github.com/carelinkhq/carelink-api/internal/appointments"
	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/chat"
	"github.com/carelinkhq/carelink-api/internal/doctors"
	"github.com/carelinkhq/carelink-api/internal/ehr"
	"github.com/carelinkhq/carelink-api/internal/notifications"
	"github.com/carelinkhq/carelink-api/internal/prescriptions"
	"github.com/carelinkhq/carelink-api/internal/reviews"
	"github.com/carelinkhq/carelink-api/internal/triage"
	"github.com/carelinkhq/carelink-api/internal/users"
)

type stubLLM struct{ text string }

func (s *stubLLM) Complete(_ context.Context, _ triage.LLMRequest) (triage.LLMResponse, error) {
	return triage.LLMResponse{Text: s.text}, nil
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	issuer := auth.NewIssuer("test-secret", time.Hour)
	userRepo := users.NewInMemoryRepository()
	apptRepo := appointments.NewInMemoryRepository()
	notifRepo := notifications.NewInMemoryRepository()
	reviewRepo := reviews.NewInMemoryRepository()
	checkStore := triage.NewInMemoryStore()

	notifier := notifications.NewService(notifRepo, nil, nil, nil)
	userService := users.NewService(userRepo, issuer, nil)
	apptService := appointments.NewService(apptRepo, userRepo, notifier, nil, nil)
	chatService := chat.NewService(chat.NewInMemoryRepository(), apptRepo, notifier, nil)
	rxService := prescriptions.NewService(prescriptions.NewInMemoryRepository(), apptRepo, nil)
	ehrService := ehr.NewService(ehr.NewInMemoryRepository(), nil)
	reviewService := reviews.NewService(reviewRepo, apptRepo, userRepo, nil, nil)
	triageService := triage.NewService(checkStore, &stubLLM{
		text: `{"differential":[],"triage":"home","confidence":"moderate","explain":"rest"}`,
	}, triage.Options{Timeout: time.Second}, nil, nil)
	doctorService := doctors.NewService(userRepo, reviewService, notifier, nil, doctors.NewInMemoryAvailabilityRepository(), nil)
	adminService := admin.NewService(userRepo, apptRepo, checkStore, admin.NewInMemoryFacilityRepository(), notifier, nil)

	return New(&Config{
		TokenVerifier:        issuer,
		UsersHandler:         users.NewHandler(userService, nil),
		DoctorsHandler:       doctors.NewHandler(doctorService, nil),
		AppointmentsHandler:  appointments.NewHandler(apptService, nil),
		ChatHandler:          chat.NewHandler(chatService, nil),
		PrescriptionsHandler: prescriptions.NewHandler(rxService, nil),
		EHRHandler:           ehr.NewHandler(ehrService, nil),
		ReviewsHandler:       reviews.NewHandler(reviewService, nil),
		NotificationsHandler: notifications.NewHandler(notifRepo, nil),
		TriageHandler:        triage.NewHandler(triageService, nil),
		AdminHandler:         admin.NewHandler(adminService, nil),
	})
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func signupAndLogin(t *testing.T, h http.Handler, role, name, email string) string {
	t.Helper()

	body := fmt.Sprintf(`{"name":%q,"email":%q,"password":"secret123","phone":"555-0100","specialization":"cardiology"}`, name, email)
	w := do(t, h, http.MethodPost, "/api/auth/"+role+"/signup", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/auth/"+role+"/login", "", fmt.Sprintf(`{"email":%q,"password":"secret123"}`, email))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthAndUnauthenticated(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/api/appointments", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodGet, "/api/doctors", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFullAppointmentFlow(t *testing.T) {
	h := newTestServer(t)

	patientToken := signupAndLogin(t, h, "patient", "Ben Ortiz", "ben@x.test")
	adminToken := signupAndLogin(t, h, "admin", "Root Admin", "admin@x.test")

	// Doctor signs up but cannot log in until approved.
	body := `{"name":"Dr. Asha Rao","email":"asha@x.test","password":"secret123","phone":"555-0101","specialization":"cardiology"}`
	w := do(t, h, http.MethodPost, "/api/auth/doctor/signup", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/auth/doctor/login", "", `{"email":"asha@x.test","password":"secret123"}`)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// Admin finds and approves the doctor.
	w = do(t, h, http.MethodGet, "/api/admin/users?role=doctor", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Users []struct {
			ID string `json:"id"`
		} `json:"users"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listResp))
	require.Len(t, listResp.Users, 1)
	doctorID := listResp.Users[0].ID

	w = do(t, h, http.MethodPut, "/api/admin/doctors/"+doctorID+"/approve", adminToken, `{"approved":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	doctorToken, _ := loginToken(t, h, "doctor", "asha@x.test")

	// Patient books; a role gate keeps doctors from booking.
	scheduledAt := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	bookBody := fmt.Sprintf(`{"doctor_id":%q,"scheduled_at":%q,"sex":"male","reason":"chest tightness"}`, doctorID, scheduledAt)
	w = do(t, h, http.MethodPost, "/api/appointments", doctorToken, bookBody)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodPost, "/api/appointments", patientToken, bookBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var createResp struct {
		Appointment struct {
			ID string `json:"id"`
		} `json:"appointment"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&createResp))
	apptID := createResp.Appointment.ID

	// Booking produced the doctor's notification.
	w = do(t, h, http.MethodGet, "/api/notifications", doctorToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var notifResp struct {
		Notifications []struct {
			Title string `json:"title"`
		} `json:"notifications"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&notifResp))
	titles := make([]string, 0, len(notifResp.Notifications))
	for _, n := range notifResp.Notifications {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Account Approved")
	assert.Contains(t, titles, "New Appointment Request")

	// Doctor confirms, then completes.
	w = do(t, h, http.MethodPut, "/api/appointments/"+apptID+"/status", doctorToken, `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, h, http.MethodPut, "/api/appointments/"+apptID+"/status", doctorToken, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Terminal state rejects further transitions.
	w = do(t, h, http.MethodPut, "/api/appointments/"+apptID+"/status", doctorToken, `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Patient reviews the completed appointment.
	w = do(t, h, http.MethodPost, "/api/reviews", patientToken, fmt.Sprintf(`{"appointment_id":%q,"rating":5,"review":"great"}`, apptID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/reviews", patientToken, fmt.Sprintf(`{"appointment_id":%q,"rating":1}`, apptID))
	assert.Equal(t, http.StatusConflict, w.Code)

	// The directory now carries the recomputed rating.
	w = do(t, h, http.MethodGet, "/api/doctors/"+doctorID, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var profileResp struct {
		Doctor struct {
			Rating       float64 `json:"rating"`
			TotalReviews int     `json:"total_reviews"`
		} `json:"doctor"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&profileResp))
	assert.Equal(t, 5.0, profileResp.Doctor.Rating)
	assert.Equal(t, 1, profileResp.Doctor.TotalReviews)
}

func TestSymptomCheckEndpoint(t *testing.T) {
	h := newTestServer(t)
	token := signupAndLogin(t, h, "patient", "Ben Ortiz", "ben@x.test")

	w := do(t, h, http.MethodPost, "/api/symptoms/check", token, `{"age":54,"sex":"male","symptoms":["chest pain","shortness of breath"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Check struct {
			Source string `json:"source"`
			Result struct {
				Triage string `json:"triage"`
			} `json:"result"`
		} `json:"check"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "emergency", resp.Check.Result.Triage)
	assert.Equal(t, "red-flag", resp.Check.Source)

	w = do(t, h, http.MethodPost, "/api/symptoms/check", token, `{"age":30,"sex":"female","symptoms":["runny nose"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "home", resp.Check.Result.Triage)
	assert.Equal(t, "llm", resp.Check.Source)

	w = do(t, h, http.MethodPost, "/api/symptoms/check", token, `{"age":30,"sex":"female","symptoms":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutesAreAdminOnly(t *testing.T) {
	h := newTestServer(t)
	patientToken := signupAndLogin(t, h, "patient", "Ben Ortiz", "ben@x.test")

	w := do(t, h, http.MethodGet, "/api/admin/dashboard", patientToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodPut, "/api/admin/doctors/some-id/approve", patientToken, `{"approved":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func loginToken(t *testing.T, h http.Handler, role, email string) (string, string) {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/auth/"+role+"/login", "", fmt.Sprintf(`{"email":%q,"password":"secret123"}`, email))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Token, resp.User.ID
}
