package doctors

import (
	"context"
	"fmt"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/notifications"
	"github.com/carelinkhq/carelink-api/internal/reviews"
	"github.com/carelinkhq/carelink-api/internal/users"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

const profileReviewLimit = 10

// ReviewSource supplies a doctor's reviews for the public profile.
type ReviewSource interface {
	ListByDoctor(ctx context.Context, doctorID string) ([]*reviews.Review, error)
}

// Notifier delivers approval decisions to doctors.
type Notifier interface {
	Notify(ctx context.Context, req notifications.CreateRequest)
}

// Profile is a doctor with their latest reviews attached.
type Profile struct {
	Doctor  *users.User       `json:"doctor"`
	Reviews []*reviews.Review `json:"reviews"`
}

// Service runs the public doctor directory and the admin approval flow.
type Service struct {
	users    users.Repository
	reviews  ReviewSource
	notifier Notifier
	cache    *DirectoryCache
	schedule AvailabilityRepository
	logger   *logging.Logger
}

func NewService(userRepo users.Repository, reviewSource ReviewSource, notifier Notifier, cache *DirectoryCache, schedule AvailabilityRepository, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		users:    userRepo,
		reviews:  reviewSource,
		notifier: notifier,
		cache:    cache,
		schedule: schedule,
		logger:   logger,
	}
}

// List returns doctors matching the filter, serving from cache when the
// same filter was listed recently.
func (s *Service) List(ctx context.Context, filter users.DoctorFilter) ([]*users.User, error) {
	if cached, ok := s.cache.Get(ctx, filter); ok {
		return cached, nil
	}

	result, err := s.users.ListDoctors(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing doctors: %w", err)
	}
	s.cache.Set(ctx, filter, result)
	return result, nil
}

// Get returns one doctor's public profile with their latest reviews.
func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	doctor, err := s.users.GetByID(ctx, id)
	if err != nil || doctor.Role != auth.RoleDoctor {
		return nil, users.ErrNotFound
	}

	recent, err := s.reviews.ListByDoctor(ctx, id)
	if err != nil {
		s.logger.Warn("loading doctor reviews failed", "doctor_id", id, "error", err)
		recent = []*reviews.Review{}
	}
	if len(recent) > profileReviewLimit {
		recent = recent[:profileReviewLimit]
	}
	return &Profile{Doctor: doctor, Reviews: recent}, nil
}

// Update edits a doctor's own profile fields. Admins may edit any doctor.
func (s *Service) Update(ctx context.Context, caller auth.Principal, id string, upd users.ProfileUpdate) (*users.User, error) {
	if caller.Role == auth.RoleDoctor && caller.ID != id {
		return nil, users.ErrNotFound
	}
	doctor, err := s.users.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return doctor, nil
}

// SetApproval records an admin's approval decision and tells the doctor.
func (s *Service) SetApproval(ctx context.Context, id string, approved bool) (*users.User, error) {
	doctor, err := s.users.SetApproval(ctx, id, approved)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	title, message := "Account Approved", "Your doctor account has been approved. You can now receive appointments."
	if !approved {
		title, message = "Account Rejected", "Your doctor account application was not approved."
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.CreateRequest{
			UserID:    doctor.ID,
			UserRole:  auth.RoleDoctor,
			Type:      notifications.TypeApproval,
			Title:     title,
			Message:   message,
			Email:     doctor.Email,
			EmailName: doctor.Name,
		})
	}
	s.logger.Info("doctor approval updated", "doctor_id", id, "approved", approved)
	return doctor, nil
}

// Delete removes a doctor account.
func (s *Service) Delete(ctx context.Context, id string) error {
	doctor, err := s.users.GetByID(ctx, id)
	if err != nil || doctor.Role != auth.RoleDoctor {
		return users.ErrNotFound
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	s.logger.Info("doctor deleted", "doctor_id", id)
	return nil
}

// Availability returns a doctor's weekly schedule.
func (s *Service) Availability(ctx context.Context, doctorID string) (*Availability, error) {
	if _, err := s.users.GetByID(ctx, doctorID); err != nil {
		return nil, users.ErrNotFound
	}
	return s.schedule.Get(ctx, doctorID)
}

// SetAvailability replaces a doctor's weekly schedule. Doctors may only
// write their own.
func (s *Service) SetAvailability(ctx context.Context, caller auth.Principal, doctorID string, slots []Slot) (*Availability, error) {
	if caller.Role == auth.RoleDoctor && caller.ID != doctorID {
		return nil, users.ErrNotFound
	}
	if err := ValidateSlots(slots); err != nil {
		return nil, err
	}

	av := &Availability{DoctorID: doctorID, Slots: slots}
	if err := s.schedule.Replace(ctx, av); err != nil {
		return nil, fmt.Errorf("replacing availability: %w", err)
	}
	return av, nil
}
