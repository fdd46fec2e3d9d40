package prescriptions

import (
	"context"
	"fmt"

	"github.com/carelinkhq/carelink-api/internal/appointments"
	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// AppointmentSource resolves the appointment a prescription is written against.
type AppointmentSource interface {
	GetByID(ctx context.Context, id string) (*appointments.Appointment, error)
}

// Service manages prescription records.
type Service struct {
	repo         Repository
	appointments AppointmentSource
	logger       *logging.Logger
}

func NewService(repo Repository, source AppointmentSource, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, appointments: source, logger: logger}
}

// Create writes a prescription. Only the doctor treating the referenced
// appointment may write one; patient identity is taken from the appointment.
func (s *Service) Create(ctx context.Context, caller auth.Principal, req CreateRequest) (*Prescription, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	appt, err := s.appointments.GetByID(ctx, req.AppointmentID)
	if err != nil {
		return nil, ErrUnknownAppointment
	}
	if caller.Role == auth.RoleDoctor && appt.DoctorID != caller.ID {
		return nil, ErrUnknownAppointment
	}

	p := &Prescription{
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		Medicines:     req.Medicines,
		Diagnosis:     req.Diagnosis,
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating prescription: %w", err)
	}

	s.logger.Info("prescription created",
		"prescription_id", p.ID,
		"appointment_id", p.AppointmentID,
		"doctor_id", p.DoctorID,
	)
	return p, nil
}

// Get returns one prescription. Only its patient, its doctor, or an admin
// may read it.
func (s *Service) Get(ctx context.Context, caller auth.Principal, id string) (*Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role != auth.RoleAdmin && caller.ID != p.PatientID && caller.ID != p.DoctorID {
		return nil, ErrNotFound
	}
	return p, nil
}

// ListForPatient returns a patient's prescriptions. Patients may only list
// their own; doctors and admins may name any patient.
func (s *Service) ListForPatient(ctx context.Context, caller auth.Principal, patientID string) ([]*Prescription, error) {
	if caller.Role == auth.RolePatient || patientID == "" {
		patientID = caller.ID
	}
	return s.repo.ListByPatient(ctx, patientID)
}
