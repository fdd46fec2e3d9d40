package notifications

import (
	"context"

	"github.com/carelinkhq/carelink-api/internal/observability/metrics"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// Service writes notifications on behalf of other components. Writes are
// best-effort: a failed notification must never fail the operation that
// triggered it, so errors are logged and swallowed here.
type Service struct {
	repo    Repository
	email   EmailSender
	metrics *metrics.ClinicMetrics
	logger  *logging.Logger
}

// NewService creates a notification service. email may be nil to
// disable email mirroring; metrics may be nil.
func NewService(repo Repository, email EmailSender, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, email: email, metrics: m, logger: logger}
}

// Notify appends a notification to the recipient's inbox and optionally
// mirrors it by email. Never returns an error.
func (s *Service) Notify(ctx context.Context, req CreateRequest) {
	n := &Notification{
		UserID:    req.UserID,
		UserRole:  req.UserRole,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		ActionURL: req.ActionURL,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.metrics.ObserveNotification(string(req.Type), "error")
		s.logger.Error("notification write failed", "error", err, "user_id", req.UserID, "type", req.Type)
		return
	}
	s.metrics.ObserveNotification(string(req.Type), "ok")

	if s.email != nil && req.Email != "" {
		msg := EmailMessage{
			To:      req.Email,
			ToName:  req.EmailName,
			Subject: req.Title,
			Body:    req.Message,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Warn("notification email failed", "error", err, "to", req.Email)
		}
	}
}
