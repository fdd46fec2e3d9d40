package chat

import (
	"strings"
	"time"

	"github.com/carelinkhq/carelink-api/internal/auth"
)

// Message is a single entry in a conversation. IsRead tracks whether the
// recipient has seen it; senders never mark their own messages.
type Message struct {
	ID         string    `json:"id" bson:"id"`
	SenderID   string    `json:"sender_id" bson:"sender_id"`
	SenderRole auth.Role `json:"sender_role" bson:"sender_role"`
	Content    string    `json:"content" bson:"content"`
	IsRead     bool      `json:"is_read" bson:"is_read"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Chat is the single conversation attached to an appointment.
type Chat struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	AppointmentID string    `json:"appointment_id" bson:"appointment_id"`
	PatientID     string    `json:"patient_id" bson:"patient_id"`
	DoctorID      string    `json:"doctor_id" bson:"doctor_id"`
	Messages      []Message `json:"messages" bson:"messages"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// StartRequest opens a new conversation for an appointment.
type StartRequest struct {
	AppointmentID string `json:"appointment_id"`
}

// SendRequest posts a message to an existing conversation.
type SendRequest struct {
	Content string `json:"content"`
}

func (r *SendRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return ErrEmptyMessage
	}
	return nil
}
