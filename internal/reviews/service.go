package reviews

import (
	"context"
	"fmt"
	"math"

	"github.com/carelinkhq/carelink-api/internal/appointments"
	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// AppointmentSource resolves the appointment a review targets.
type AppointmentSource interface {
	GetByID(ctx context.Context, id string) (*appointments.Appointment, error)
}

// DoctorRater receives the recomputed aggregate after each review write.
type DoctorRater interface {
	UpdateRating(ctx context.Context, doctorID string, rating float64, total int) error
}

// DirectoryInvalidator drops cached doctor listings after a rating
// change so the directory reflects the new aggregate. May be nil.
type DirectoryInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service records reviews and keeps each doctor's aggregate rating in
// step with them.
type Service struct {
	repo         Repository
	appointments AppointmentSource
	rater        DoctorRater
	directory    DirectoryInvalidator
	logger       *logging.Logger
}

func NewService(repo Repository, source AppointmentSource, rater DoctorRater, directory DirectoryInvalidator, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, appointments: source, rater: rater, directory: directory, logger: logger}
}

// Create records a review. The target appointment must belong to the
// calling patient and be completed, and may only be reviewed once.
func (s *Service) Create(ctx context.Context, caller auth.Principal, req CreateRequest) (*Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	appt, err := s.appointments.GetByID(ctx, req.AppointmentID)
	if err != nil || appt.PatientID != caller.ID {
		return nil, ErrNotFound
	}
	if appt.Status != appointments.StatusCompleted {
		return nil, ErrNotCompleted
	}

	rev := &Review{
		DoctorID:      appt.DoctorID,
		PatientID:     caller.ID,
		AppointmentID: appt.ID,
		Rating:        req.Rating,
		Review:        req.Review,
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}

	if err := s.recomputeRating(ctx, appt.DoctorID); err != nil {
		s.logger.Error("recomputing doctor rating failed", "doctor_id", appt.DoctorID, "error", err)
	}
	s.logger.Info("review created", "review_id", rev.ID, "doctor_id", rev.DoctorID, "rating", rev.Rating)
	return rev, nil
}

// Respond stores the doctor's reply. Only the reviewed doctor may respond.
func (s *Service) Respond(ctx context.Context, caller auth.Principal, id string, req RespondRequest) (*Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rev.DoctorID != caller.ID {
		return nil, ErrNotFound
	}
	return s.repo.SetResponse(ctx, id, req.Response)
}

// ListByDoctor returns a doctor's reviews, newest first.
func (s *Service) ListByDoctor(ctx context.Context, doctorID string) ([]*Review, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

// recomputeRating rescans all of the doctor's reviews and stores the mean
// rounded to one decimal.
func (s *Service) recomputeRating(ctx context.Context, doctorID string) error {
	all, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("listing reviews: %w", err)
	}

	var sum int
	for _, rev := range all {
		sum += rev.Rating
	}
	mean := 0.0
	if len(all) > 0 {
		mean = math.Round(float64(sum)/float64(len(all))*10) / 10
	}
	if err := s.rater.UpdateRating(ctx, doctorID, mean, len(all)); err != nil {
		return err
	}
	if s.directory != nil {
		s.directory.Invalidate(ctx)
	}
	return nil
}
