package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carelinkhq/carelink-api/internal/appointments"
	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/notifications"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// AppointmentSource resolves the appointment a conversation belongs to.
type AppointmentSource interface {
	GetByID(ctx context.Context, id string) (*appointments.Appointment, error)
}

// Notifier delivers in-app notifications for new messages.
type Notifier interface {
	Notify(ctx context.Context, req notifications.CreateRequest)
}

// Service manages the one-conversation-per-appointment messaging layer.
type Service struct {
	repo         Repository
	appointments AppointmentSource
	notifier     Notifier
	logger       *logging.Logger
}

func NewService(repo Repository, source AppointmentSource, notifier Notifier, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, appointments: source, notifier: notifier, logger: logger}
}

// Start opens the conversation for an appointment. Only the appointment's
// patient or doctor may open it, and opening twice is a conflict.
func (s *Service) Start(ctx context.Context, caller auth.Principal, appointmentID string) (*Chat, error) {
	if strings.TrimSpace(appointmentID) == "" {
		return nil, ErrMissingAppointment
	}
	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !isParticipant(caller, appt) {
		return nil, ErrNotFound
	}

	c := &Chat{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("chat opened", "appointment_id", appt.ID, "by", caller.ID)
	return c, nil
}

// Get returns the conversation for an appointment, participants only.
func (s *Service) Get(ctx context.Context, caller auth.Principal, appointmentID string) (*Chat, error) {
	c, err := s.repo.GetByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !chatParticipant(caller, c) {
		return nil, ErrNotFound
	}
	return c, nil
}

// List returns the caller's conversations, most recently active first.
func (s *Service) List(ctx context.Context, caller auth.Principal) ([]*Chat, error) {
	return s.repo.ListForUser(ctx, caller.ID)
}

// Send appends a message to the appointment's conversation and notifies
// the other participant.
func (s *Service) Send(ctx context.Context, caller auth.Principal, appointmentID string, req SendRequest) (*Chat, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !chatParticipant(caller, existing) {
		return nil, ErrNotFound
	}

	msg := Message{
		ID:         uuid.New().String(),
		SenderID:   caller.ID,
		SenderRole: caller.Role,
		Content:    strings.TrimSpace(req.Content),
		CreatedAt:  time.Now().UTC(),
	}
	updated, err := s.repo.AppendMessage(ctx, appointmentID, msg)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		recipientID, recipientRole := existing.DoctorID, auth.RoleDoctor
		if caller.ID == existing.DoctorID {
			recipientID, recipientRole = existing.PatientID, auth.RolePatient
		}
		s.notifier.Notify(ctx, notifications.CreateRequest{
			UserID:    recipientID,
			UserRole:  recipientRole,
			Type:      notifications.TypeMessage,
			Title:     "New Message",
			Message:   "You have a new message about your appointment.",
			ActionURL: fmt.Sprintf("/chat/%s", appointmentID),
		})
	}
	return updated, nil
}

// MarkRead marks every message the caller did not send as read.
func (s *Service) MarkRead(ctx context.Context, caller auth.Principal, appointmentID string) error {
	c, err := s.repo.GetByAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if !chatParticipant(caller, c) {
		return ErrNotFound
	}
	return s.repo.MarkRead(ctx, appointmentID, caller.ID)
}

func isParticipant(caller auth.Principal, appt *appointments.Appointment) bool {
	return caller.ID == appt.PatientID || caller.ID == appt.DoctorID
}

func chatParticipant(caller auth.Principal, c *Chat) bool {
	return caller.ID == c.PatientID || caller.ID == c.DoctorID
}
