package admin

import (
	"errors"
	"strings"
	"time"

	"github.com/carelinkhq/carelink-api/internal/appointments"
	"github.com/carelinkhq/carelink-api/internal/triage"
)

// DashboardStats is the admin landing-page summary. EmergencyAlerts are
// pending appointments due within the hour; TriageAlerts are recent
// emergency-level symptom checks.
type DashboardStats struct {
	TotalPatients       int64                       `json:"total_patients"`
	TotalDoctors        int64                       `json:"total_doctors"`
	PendingDoctors      int                         `json:"pending_doctors"`
	TotalAppointments   int                         `json:"total_appointments"`
	TodayAppointments   int                         `json:"today_appointments"`
	ActiveUsers         int64                       `json:"active_users"`
	AppointmentsByState map[string]int              `json:"appointments_by_status"`
	RecentAppointments  []*appointments.Appointment `json:"recent_appointments"`
	EmergencyAlerts     []*appointments.Appointment `json:"emergency_alerts"`
	TriageAlerts        []*triage.SymptomCheck      `json:"triage_alerts"`
}

// SignupsByDay is one day's patient registration count.
type SignupsByDay struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// AnalyticsReport aggregates activity for the admin charts.
type AnalyticsReport struct {
	AppointmentsByState map[string]int `json:"appointments_by_status"`
	PatientSignups      []SignupsByDay `json:"patient_signups"`
}

// Hospital is a care facility managed through the admin surface.
type Hospital struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Address   string    `json:"address" bson:"address"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Department is a unit within a hospital.
type Department struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	HospitalID  string    `json:"hospital_id" bson:"hospital_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// HospitalRequest is the create body for a hospital.
type HospitalRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (r *HospitalRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(r.Address) == "" {
		return ErrMissingAddress
	}
	return nil
}

// DepartmentRequest is the create body for a department.
type DepartmentRequest struct {
	HospitalID  string `json:"hospital_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *DepartmentRequest) Validate() error {
	if strings.TrimSpace(r.HospitalID) == "" {
		return ErrMissingHospital
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// StatusRequest activates or suspends a user account.
type StatusRequest struct {
	Active bool   `json:"active"`
	Reason string `json:"reason"`
}

var (
	ErrMissingName      = errors.New("name is required")
	ErrMissingAddress   = errors.New("address is required")
	ErrMissingHospital  = errors.New("hospital is required")
	ErrHospitalNotFound = errors.New("hospital not found")
)
