package prescriptions

import (
	"errors"
	"strings"
	"time"
)

// Medicine is one prescribed item.
type Medicine struct {
	Name         string `json:"name" bson:"name"`
	Dosage       string `json:"dosage" bson:"dosage"`
	Frequency    string `json:"frequency" bson:"frequency"`
	Duration     string `json:"duration" bson:"duration"`
	Instructions string `json:"instructions,omitempty" bson:"instructions,omitempty"`
}

// Prescription is an immutable clinical record written by the treating
// doctor against an appointment.
type Prescription struct {
	ID            string     `json:"id" bson:"_id,omitempty"`
	AppointmentID string     `json:"appointment_id" bson:"appointment_id"`
	DoctorID      string     `json:"doctor_id" bson:"doctor_id"`
	PatientID     string     `json:"patient_id" bson:"patient_id"`
	Medicines     []Medicine `json:"medicines" bson:"medicines"`
	Diagnosis     string     `json:"diagnosis" bson:"diagnosis"`
	Notes         string     `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
}

// CreateRequest is the request body for writing a prescription.
type CreateRequest struct {
	AppointmentID string     `json:"appointment_id"`
	Medicines     []Medicine `json:"medicines"`
	Diagnosis     string     `json:"diagnosis"`
	Notes         string     `json:"notes"`
}

func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.AppointmentID) == "" {
		return ErrMissingAppointment
	}
	if len(r.Medicines) == 0 {
		return ErrMissingMedicines
	}
	for _, m := range r.Medicines {
		if strings.TrimSpace(m.Name) == "" {
			return ErrMissingMedicineName
		}
	}
	if strings.TrimSpace(r.Diagnosis) == "" {
		return ErrMissingDiagnosis
	}
	return nil
}

var (
	ErrMissingAppointment  = errors.New("appointment is required")
	ErrMissingMedicines    = errors.New("at least one medicine is required")
	ErrMissingMedicineName = errors.New("medicine name is required")
	ErrMissingDiagnosis    = errors.New("diagnosis is required")
	ErrNotFound            = errors.New("prescription not found")
	ErrUnknownAppointment  = errors.New("appointment not found")
)
