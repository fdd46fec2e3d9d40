package appointments

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus normalizes a status string and reports whether it is known.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusConfirmed:
		return StatusConfirmed, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusCancelled:
		return StatusCancelled, true
	default:
		return "", false
	}
}

// transitions is the appointment state machine: pending may be confirmed
// or cancelled, confirmed may be completed or cancelled, and the two end
// states accept nothing further.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether the move from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Terminal reports whether s accepts no further transitions.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Appointment is a ledger entry binding a patient to a doctor at a
// scheduled time.
type Appointment struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	PatientID   string    `json:"patient_id" bson:"patient_id"`
	DoctorID    string    `json:"doctor_id" bson:"doctor_id"`
	ScheduledAt time.Time `json:"scheduled_at" bson:"scheduled_at"`
	Sex         string    `json:"sex" bson:"sex"`
	Reason      string    `json:"reason" bson:"reason"`
	Notes       string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Status      Status    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// CreateRequest is the request body for booking an appointment.
type CreateRequest struct {
	PatientID   string    `json:"-"`
	DoctorID    string    `json:"doctor_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Sex         string    `json:"sex"`
	Reason      string    `json:"reason"`
	Notes       string    `json:"notes"`
}

// Validate checks the required booking fields.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.PatientID) == "" {
		return ErrMissingPatient
	}
	if strings.TrimSpace(r.DoctorID) == "" {
		return ErrMissingDoctor
	}
	if r.ScheduledAt.IsZero() {
		return ErrMissingSchedule
	}
	if strings.TrimSpace(r.Sex) == "" {
		return ErrMissingSex
	}
	if strings.TrimSpace(r.Reason) == "" {
		return ErrMissingReason
	}
	return nil
}

// ListFilter scopes appointment listings.
type ListFilter struct {
	PatientID string
	DoctorID  string
	Status    Status
	Ascending bool
}
