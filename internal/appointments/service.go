package appointments

import (
	"context"
	"fmt"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/notifications"
	"github.com/carelinkhq/carelink-api/internal/observability/metrics"
	"github.com/carelinkhq/carelink-api/internal/users"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// Notifier delivers in-app notifications triggered by ledger changes.
type Notifier interface {
	Notify(ctx context.Context, req notifications.CreateRequest)
}

// UserDirectory resolves user accounts referenced by appointments.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

// Service implements the appointment ledger.
type Service struct {
	repo      Repository
	directory UserDirectory
	notifier  Notifier
	metrics   *metrics.ClinicMetrics
	logger    *logging.Logger
}

func NewService(repo Repository, directory UserDirectory, notifier Notifier, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, directory: directory, notifier: notifier, metrics: m, logger: logger}
}

// Create books a pending appointment for the calling patient and notifies
// the doctor. Exactly one notification is produced per booking.
func (s *Service) Create(ctx context.Context, caller auth.Principal, req CreateRequest) (*Appointment, error) {
	req.PatientID = caller.ID
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doctor, err := s.directory.GetByID(ctx, req.DoctorID)
	if err != nil || doctor.Role != auth.RoleDoctor {
		return nil, ErrUnknownDoctor
	}

	appt := &Appointment{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		ScheduledAt: req.ScheduledAt.UTC(),
		Sex:         req.Sex,
		Reason:      req.Reason,
		Notes:       req.Notes,
		Status:      StatusPending,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.metrics.ObserveAppointmentCreated(string(appt.Status))
	s.logger.Info("appointment created",
		"appointment_id", appt.ID,
		"patient_id", appt.PatientID,
		"doctor_id", appt.DoctorID,
	)

	if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.CreateRequest{
			UserID:    doctor.ID,
			UserRole:  auth.RoleDoctor,
			Type:      notifications.TypeAppointment,
			Title:     "New Appointment Request",
			Message:   fmt.Sprintf("You have a new appointment request for %s.", appt.ScheduledAt.Format("Jan 2, 2006 at 3:04 PM")),
			ActionURL: fmt.Sprintf("/doctor/appointments/%s", appt.ID),
			Email:     doctor.Email,
			EmailName: doctor.Name,
		})
	}
	return appt, nil
}

// List returns appointments visible to the caller: patients see their own,
// doctors see their schedule, admins see everything.
func (s *Service) List(ctx context.Context, caller auth.Principal, status Status, ascending bool) ([]*Appointment, error) {
	filter := ListFilter{Status: status, Ascending: ascending}
	switch caller.Role {
	case auth.RolePatient:
		filter.PatientID = caller.ID
	case auth.RoleDoctor:
		filter.DoctorID = caller.ID
	}
	return s.repo.List(ctx, filter)
}

// Get returns a single appointment. Non-admin callers who are neither the
// patient nor the doctor get a not-found, not a forbidden.
func (s *Service) Get(ctx context.Context, caller auth.Principal, id string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(caller, appt) {
		return nil, ErrNotFound
	}
	return appt, nil
}

// UpdateStatus moves an appointment through the state machine and notifies
// the patient of the change. Only the assigned doctor or an admin may call.
func (s *Service) UpdateStatus(ctx context.Context, caller auth.Principal, id string, next Status, notes *string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role == auth.RoleDoctor && appt.DoctorID != caller.ID {
		return nil, ErrNotFound
	}
	if !appt.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	prev := appt.Status
	updated, err := s.repo.UpdateStatus(ctx, id, next, notes)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveStatusTransition(string(prev), string(next))
	s.logger.Info("appointment status changed",
		"appointment_id", id,
		"from", prev,
		"to", next,
	)

	s.notifyPatient(ctx, updated)
	return updated, nil
}

// Cancel cancels a pending or confirmed appointment. Patients may cancel
// their own bookings; doctors and admins go through UpdateStatus.
func (s *Service) Cancel(ctx context.Context, caller auth.Principal, id string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(caller, appt) {
		return nil, ErrNotFound
	}
	if !appt.Status.CanTransitionTo(StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	prev := appt.Status
	updated, err := s.repo.UpdateStatus(ctx, id, StatusCancelled, nil)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveStatusTransition(string(prev), string(StatusCancelled))
	s.logger.Info("appointment cancelled", "appointment_id", id, "by", caller.ID)
	return updated, nil
}

func (s *Service) canAccess(caller auth.Principal, appt *Appointment) bool {
	switch caller.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleDoctor:
		return appt.DoctorID == caller.ID
	default:
		return appt.PatientID == caller.ID
	}
}

func (s *Service) notifyPatient(ctx context.Context, appt *Appointment) {
	if s.notifier == nil {
		return
	}
	var patientEmail, patientName string
	if patient, err := s.directory.GetByID(ctx, appt.PatientID); err == nil {
		patientEmail = patient.Email
		patientName = patient.Name
	}
	s.notifier.Notify(ctx, notifications.CreateRequest{
		UserID:    appt.PatientID,
		UserRole:  auth.RolePatient,
		Type:      notifications.TypeAppointment,
		Title:     "Appointment Updated",
		Message:   fmt.Sprintf("Your appointment on %s is now %s.", appt.ScheduledAt.Format("Jan 2, 2006 at 3:04 PM"), appt.Status),
		ActionURL: fmt.Sprintf("/patient/appointments/%s", appt.ID),
		Email:     patientEmail,
		EmailName: patientName,
	})
}
