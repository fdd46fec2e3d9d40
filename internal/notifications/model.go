package notifications

import (
	"errors"
	"time"

	"github.com/carelinkhq/carelink-api/internal/auth"
)

// Type classifies a notification.
type Type string

const (
	TypeAppointment Type = "appointment"
	TypeApproval    Type = "approval"
	TypeMessage     Type = "message"
	TypeReminder    Type = "reminder"
	TypeSystem      Type = "system"
)

// Notification is a per-user inbox entry written as a side effect of
// ledger and approval events.
type Notification struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	UserRole  auth.Role `json:"user_role" bson:"user_role"`
	Type      Type      `json:"type" bson:"type"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	IsRead    bool      `json:"is_read" bson:"is_read"`
	ActionURL string    `json:"action_url,omitempty" bson:"action_url,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CreateRequest describes a notification to enqueue. Email/EmailName are
// optional: when set and an email sender is configured, the notification
// is mirrored to the recipient's inbox.
type CreateRequest struct {
	UserID    string
	UserRole  auth.Role
	Type      Type
	Title     string
	Message   string
	ActionURL string
	Email     string
	EmailName string
}

// ErrNotFound is returned when a notification is absent or owned by
// someone else.
var ErrNotFound = errors.New("notification not found")
