package reviews

import (
	"errors"
	"strings"
	"time"
)

// Review is a patient's rating of a doctor, tied to one completed
// appointment.
type Review struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	DoctorID       string    `json:"doctor_id" bson:"doctor_id"`
	PatientID      string    `json:"patient_id" bson:"patient_id"`
	AppointmentID  string    `json:"appointment_id" bson:"appointment_id"`
	Rating         int       `json:"rating" bson:"rating"`
	Review         string    `json:"review,omitempty" bson:"review,omitempty"`
	DoctorResponse string    `json:"doctor_response,omitempty" bson:"doctor_response,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// CreateRequest is the request body for leaving a review.
type CreateRequest struct {
	AppointmentID string `json:"appointment_id"`
	Rating        int    `json:"rating"`
	Review        string `json:"review"`
}

func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.AppointmentID) == "" {
		return ErrMissingAppointment
	}
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// RespondRequest is the doctor's reply to a review.
type RespondRequest struct {
	Response string `json:"response"`
}

func (r *RespondRequest) Validate() error {
	if strings.TrimSpace(r.Response) == "" {
		return ErrMissingResponse
	}
	return nil
}

var (
	ErrMissingAppointment = errors.New("appointment is required")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrMissingResponse    = errors.New("response text is required")
	ErrNotFound           = errors.New("review not found")
	ErrDuplicateReview    = errors.New("appointment already reviewed")
	ErrNotCompleted       = errors.New("appointment is not completed")
)
