package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

type failingRepo struct{}

func (failingRepo) Create(ctx context.Context, n *Notification) error { return errors.New("boom") }
func (failingRepo) List(ctx context.Context, userID string, isRead *bool, limit int) ([]*Notification, error) {
	return nil, nil
}
func (failingRepo) MarkRead(ctx context.Context, id, userID string) (*Notification, error) {
	return nil, ErrNotFound
}
func (failingRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) { return 0, nil }
func (failingRepo) Delete(ctx context.Context, id, userID string) error           { return ErrNotFound }

type recordingEmail struct {
	sent []EmailMessage
	err  error
}

func (r *recordingEmail) Send(ctx context.Context, msg EmailMessage) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func TestNotifyWritesToInbox(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil, nil, logging.Default())

	svc.Notify(context.Background(), CreateRequest{
		UserID:   "doc-1",
		UserRole: auth.RoleDoctor,
		Type:     TypeAppointment,
		Title:    "New Appointment Request",
		Message:  "You have a new appointment request",
	})

	items, err := repo.List(context.Background(), "doc-1", nil, 50)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(items))
	}
	if items[0].IsRead {
		t.Error("new notifications must start unread")
	}
}

func TestNotifySwallowsRepositoryErrors(t *testing.T) {
	svc := NewService(failingRepo{}, nil, nil, logging.Default())
	// Must not panic or propagate: best-effort by contract.
	svc.Notify(context.Background(), CreateRequest{UserID: "u1", Type: TypeSystem, Title: "t", Message: "m"})
}

func TestNotifyMirrorsEmailWhenConfigured(t *testing.T) {
	repo := NewInMemoryRepository()
	email := &recordingEmail{}
	svc := NewService(repo, email, nil, logging.Default())

	svc.Notify(context.Background(), CreateRequest{
		UserID:    "doc-1",
		UserRole:  auth.RoleDoctor,
		Type:      TypeApproval,
		Title:     "Account Approved",
		Message:   "Your account has been approved.",
		Email:     "doc@example.com",
		EmailName: "Dr. Example",
	})

	if len(email.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(email.sent))
	}
	if email.sent[0].Subject != "Account Approved" {
		t.Errorf("unexpected subject %q", email.sent[0].Subject)
	}
}

func TestNotifyEmailFailureDoesNotAffectInbox(t *testing.T) {
	repo := NewInMemoryRepository()
	email := &recordingEmail{err: errors.New("smtp down")}
	svc := NewService(repo, email, nil, logging.Default())

	svc.Notify(context.Background(), CreateRequest{
		UserID: "doc-1", Type: TypeApproval, Title: "t", Message: "m", Email: "doc@example.com",
	})

	items, _ := repo.List(context.Background(), "doc-1", nil, 50)
	if len(items) != 1 {
		t.Fatalf("inbox write should survive email failure, got %d items", len(items))
	}
}

func TestMarkReadOwnership(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	n := &Notification{UserID: "u1", Type: TypeSystem, Title: "t", Message: "m"}
	if err := repo.Create(ctx, n); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := repo.MarkRead(ctx, n.ID, "someone-else"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}

	updated, err := repo.MarkRead(ctx, n.ID, "u1")
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if !updated.IsRead {
		t.Error("expected notification to be read")
	}

	// Idempotent: marking again succeeds.
	if _, err := repo.MarkRead(ctx, n.ID, "u1"); err != nil {
		t.Errorf("expected idempotent mark-read, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, &Notification{UserID: "u1", Type: TypeSystem, Title: "t", Message: "m"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := repo.Create(ctx, &Notification{UserID: "u2", Type: TypeSystem, Title: "t", Message: "m"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := repo.MarkAllRead(ctx, "u1")
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if updated != 3 {
		t.Errorf("expected 3 updated, got %d", updated)
	}

	unreadFalse := false
	others, _ := repo.List(ctx, "u2", &unreadFalse, 50)
	if len(others) != 1 {
		t.Errorf("other users' notifications must stay unread")
	}
}
