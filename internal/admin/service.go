package admin

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/carelinkhq/carelink-api/internal/appointments"
	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/notifications"
	"github.com/carelinkhq/carelink-api/internal/triage"
	"github.com/carelinkhq/carelink-api/internal/users"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

const (
	recentAppointmentLimit = 10
	emergencyAlertLimit    = 5
	signupWindowDays       = 30
)

// AppointmentSource supplies the ledger for dashboard aggregation.
type AppointmentSource interface {
	List(ctx context.Context, filter appointments.ListFilter) ([]*appointments.Appointment, error)
}

// EmergencySource supplies recent emergency triage results.
type EmergencySource interface {
	ListEmergencies(ctx context.Context, limit int) ([]*triage.SymptomCheck, error)
}

// Notifier tells users about account status decisions.
type Notifier interface {
	Notify(ctx context.Context, req notifications.CreateRequest)
}

// Service backs the admin surface.
type Service struct {
	users        users.Repository
	appointments AppointmentSource
	emergencies  EmergencySource
	facilities   FacilityRepository
	notifier     Notifier
	logger       *logging.Logger
}

func NewService(userRepo users.Repository, appts AppointmentSource, emergencies EmergencySource, facilities FacilityRepository, notifier Notifier, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		users:        userRepo,
		appointments: appts,
		emergencies:  emergencies,
		facilities:   facilities,
		notifier:     notifier,
		logger:       logger,
	}
}

// Dashboard aggregates the landing-page counters, the ten most recent
// appointments, pending appointments due within the hour, and up to
// five recent emergency triage alerts.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	_, totalPatients, err := s.users.List(ctx, users.ListFilter{Role: auth.RolePatient, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("counting patients: %w", err)
	}
	active := true
	_, activeUsers, err := s.users.List(ctx, users.ListFilter{Active: &active, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("counting active users: %w", err)
	}
	doctors, err := s.users.ListDoctors(ctx, users.DoctorFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing doctors: %w", err)
	}

	pending := 0
	for _, d := range doctors {
		if !d.IsApproved {
			pending++
		}
	}

	all, err := s.appointments.List(ctx, appointments.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	dueBy := now.Add(time.Hour)

	byStatus := make(map[string]int)
	today := 0
	var emergencies []*appointments.Appointment
	for _, appt := range all {
		byStatus[string(appt.Status)]++
		if !appt.ScheduledAt.Before(dayStart) && appt.ScheduledAt.Before(dayEnd) {
			today++
		}
		if appt.Status == appointments.StatusPending && !appt.ScheduledAt.After(dueBy) &&
			len(emergencies) < emergencyAlertLimit {
			emergencies = append(emergencies, appt)
		}
	}
	if emergencies == nil {
		emergencies = []*appointments.Appointment{}
	}

	recent := all
	if len(recent) > recentAppointmentLimit {
		recent = recent[:recentAppointmentLimit]
	}

	triageAlerts, err := s.emergencies.ListEmergencies(ctx, emergencyAlertLimit)
	if err != nil {
		s.logger.Warn("loading triage alerts failed", "error", err)
		triageAlerts = []*triage.SymptomCheck{}
	}

	return &DashboardStats{
		TotalPatients:       totalPatients,
		TotalDoctors:        int64(len(doctors)),
		PendingDoctors:      pending,
		TotalAppointments:   len(all),
		TodayAppointments:   today,
		ActiveUsers:         activeUsers,
		AppointmentsByState: byStatus,
		RecentAppointments:  recent,
		EmergencyAlerts:     emergencies,
		TriageAlerts:        triageAlerts,
	}, nil
}

// ListUsers pages through all accounts, optionally filtered by role,
// active state, or a name/email search.
func (s *Service) ListUsers(ctx context.Context, filter users.ListFilter) ([]*users.User, int64, error) {
	return s.users.List(ctx, filter)
}

// SetUserStatus suspends or reactivates an account and tells its owner.
func (s *Service) SetUserStatus(ctx context.Context, id string, req StatusRequest) (*users.User, error) {
	u, err := s.users.SetActive(ctx, id, req.Active, req.Reason)
	if err != nil {
		return nil, err
	}

	title, message := "Account Reactivated", "Your account has been reactivated."
	if !req.Active {
		title = "Account Suspended"
		message = "Your account has been suspended."
		if req.Reason != "" {
			message = fmt.Sprintf("Your account has been suspended: %s", req.Reason)
		}
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.CreateRequest{
			UserID:    u.ID,
			UserRole:  u.Role,
			Type:      notifications.TypeSystem,
			Title:     title,
			Message:   message,
			Email:     u.Email,
			EmailName: u.Name,
		})
	}
	s.logger.Info("user status updated", "user_id", id, "active", req.Active)
	return u, nil
}

// Analytics reports appointment volume by status and patient signups per
// day over the trailing thirty days.
func (s *Service) Analytics(ctx context.Context) (*AnalyticsReport, error) {
	all, err := s.appointments.List(ctx, appointments.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	byStatus := make(map[string]int)
	for _, appt := range all {
		byStatus[string(appt.Status)]++
	}

	patients, err := s.listAllPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -signupWindowDays)
	perDay := make(map[string]int)
	for _, p := range patients {
		if p.CreatedAt.Before(cutoff) {
			continue
		}
		perDay[p.CreatedAt.Format("2006-01-02")]++
	}
	signups := make([]SignupsByDay, 0, len(perDay))
	for day, count := range perDay {
		signups = append(signups, SignupsByDay{Day: day, Count: count})
	}
	sort.Slice(signups, func(i, j int) bool { return signups[i].Day < signups[j].Day })

	return &AnalyticsReport{
		AppointmentsByState: byStatus,
		PatientSignups:      signups,
	}, nil
}

func (s *Service) listAllPatients(ctx context.Context) ([]*users.User, error) {
	const pageSize = 500

	var all []*users.User
	for page := 1; ; page++ {
		batch, total, err := s.users.List(ctx, users.ListFilter{
			Role:  auth.RolePatient,
			Page:  page,
			Limit: pageSize,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if int64(len(all)) >= total || len(batch) == 0 {
			return all, nil
		}
	}
}

// CreateHospital registers a care facility.
func (s *Service) CreateHospital(ctx context.Context, req HospitalRequest) (*Hospital, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	h := &Hospital{Name: req.Name, Address: req.Address, Phone: req.Phone}
	if err := s.facilities.CreateHospital(ctx, h); err != nil {
		return nil, fmt.Errorf("creating hospital: %w", err)
	}
	return h, nil
}

// ListHospitals returns all facilities.
func (s *Service) ListHospitals(ctx context.Context) ([]*Hospital, error) {
	return s.facilities.ListHospitals(ctx)
}

// CreateDepartment registers a department under an existing hospital.
func (s *Service) CreateDepartment(ctx context.Context, req DepartmentRequest) (*Department, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	exists, err := s.facilities.HospitalExists(ctx, req.HospitalID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrHospitalNotFound
	}

	d := &Department{HospitalID: req.HospitalID, Name: req.Name, Description: req.Description}
	if err := s.facilities.CreateDepartment(ctx, d); err != nil {
		return nil, fmt.Errorf("creating department: %w", err)
	}
	return d, nil
}

// ListDepartments returns departments, optionally scoped to one hospital.
func (s *Service) ListDepartments(ctx context.Context, hospitalID string) ([]*Department, error) {
	return s.facilities.ListDepartments(ctx, hospitalID)
}
