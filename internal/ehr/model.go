package ehr

import (
	"errors"
	"strings"
	"time"
)

// Document is an external file attached to a health record.
type Document struct {
	Title      string    `json:"title" bson:"title"`
	Type       string    `json:"type" bson:"type"`
	URL        string    `json:"url" bson:"url"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// EmergencyContact is the person to reach in an emergency.
type EmergencyContact struct {
	Name     string `json:"name" bson:"name"`
	Phone    string `json:"phone" bson:"phone"`
	Relation string `json:"relation" bson:"relation"`
}

// Record is a patient's longitudinal health record. One exists per
// patient, created lazily on first access.
type Record struct {
	ID               string           `json:"id" bson:"_id,omitempty"`
	PatientID        string           `json:"patient_id" bson:"patient_id"`
	BloodGroup       string           `json:"blood_group,omitempty" bson:"blood_group,omitempty"`
	Allergies        []string         `json:"allergies" bson:"allergies"`
	Medications      []string         `json:"medications" bson:"medications"`
	History          []string         `json:"history" bson:"history"`
	Documents        []Document       `json:"documents" bson:"documents"`
	EmergencyContact EmergencyContact `json:"emergency_contact" bson:"emergency_contact"`
	CreatedAt        time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" bson:"updated_at"`
}

// UpdateRequest carries the patient-editable portion of a record. Nil
// fields are left unchanged.
type UpdateRequest struct {
	BloodGroup       *string           `json:"blood_group"`
	Allergies        *[]string         `json:"allergies"`
	Medications      *[]string         `json:"medications"`
	History          *[]string         `json:"history"`
	EmergencyContact *EmergencyContact `json:"emergency_contact"`
}

// AddDocumentRequest appends one document to a record.
type AddDocumentRequest struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

func (r *AddDocumentRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrMissingDocumentTitle
	}
	if strings.TrimSpace(r.URL) == "" {
		return ErrMissingDocumentURL
	}
	return nil
}

var (
	ErrMissingDocumentTitle = errors.New("document title is required")
	ErrMissingDocumentURL   = errors.New("document url is required")
	ErrNotFound             = errors.New("health record not found")
)
