package ehr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/carelink-api/internal/auth"
)

func TestGetLazilyCreatesRecord(t *testing.T) {
	service := NewService(NewInMemoryRepository(), nil)
	ctx := context.Background()
	patient := auth.Principal{ID: "patient-1", Role: auth.RolePatient}

	rec, err := service.Get(ctx, patient, "")
	require.NoError(t, err)
	assert.Equal(t, patient.ID, rec.PatientID)
	assert.Empty(t, rec.Allergies)
	assert.NotNil(t, rec.Documents)

	again, err := service.Get(ctx, patient, "")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)
}

func TestPatientAlwaysReadsOwnRecord(t *testing.T) {
	service := NewService(NewInMemoryRepository(), nil)
	ctx := context.Background()
	patient := auth.Principal{ID: "patient-1", Role: auth.RolePatient}

	rec, err := service.Get(ctx, patient, "someone-else")
	require.NoError(t, err)
	assert.Equal(t, patient.ID, rec.PatientID)
}

func TestDoctorReadsNamedPatient(t *testing.T) {
	service := NewService(NewInMemoryRepository(), nil)
	ctx := context.Background()

	doctor := auth.Principal{ID: "doctor-1", Role: auth.RoleDoctor}
	rec, err := service.Get(ctx, doctor, "patient-7")
	require.NoError(t, err)
	assert.Equal(t, "patient-7", rec.PatientID)
}

func TestUpdateRecord(t *testing.T) {
	service := NewService(NewInMemoryRepository(), nil)
	ctx := context.Background()
	patient := auth.Principal{ID: "patient-1", Role: auth.RolePatient}

	blood := "O+"
	allergies := []string{"penicillin"}
	contact := EmergencyContact{Name: "Maya Ortiz", Phone: "555-0100", Relation: "sister"}
	rec, err := service.Update(ctx, patient, UpdateRequest{
		BloodGroup:       &blood,
		Allergies:        &allergies,
		EmergencyContact: &contact,
	})
	require.NoError(t, err)
	assert.Equal(t, "O+", rec.BloodGroup)
	assert.Equal(t, []string{"penicillin"}, rec.Allergies)
	assert.Equal(t, "Maya Ortiz", rec.EmergencyContact.Name)

	// Nil fields leave prior values intact.
	meds := []string{"metformin"}
	rec, err = service.Update(ctx, patient, UpdateRequest{Medications: &meds})
	require.NoError(t, err)
	assert.Equal(t, "O+", rec.BloodGroup)
	assert.Equal(t, []string{"metformin"}, rec.Medications)
}

func TestAddDocumentUpsertsRecord(t *testing.T) {
	service := NewService(NewInMemoryRepository(), nil)
	ctx := context.Background()
	patient := auth.Principal{ID: "patient-1", Role: auth.RolePatient}

	rec, err := service.AddDocument(ctx, patient, AddDocumentRequest{
		Title: "Chest X-Ray",
		Type:  "imaging",
		URL:   "https://files.example.test/xray-1.pdf",
	})
	require.NoError(t, err)
	require.Len(t, rec.Documents, 1)
	assert.Equal(t, "Chest X-Ray", rec.Documents[0].Title)
	assert.False(t, rec.Documents[0].UploadedAt.IsZero())

	rec, err = service.AddDocument(ctx, patient, AddDocumentRequest{
		Title: "Blood Panel",
		Type:  "lab",
		URL:   "https://files.example.test/panel-1.pdf",
	})
	require.NoError(t, err)
	assert.Len(t, rec.Documents, 2)
}

func TestAddDocumentValidation(t *testing.T) {
	service := NewService(NewInMemoryRepository(), nil)
	ctx := context.Background()
	patient := auth.Principal{ID: "patient-1", Role: auth.RolePatient}

	_, err := service.AddDocument(ctx, patient, AddDocumentRequest{URL: "https://x.test/a"})
	assert.ErrorIs(t, err, ErrMissingDocumentTitle)

	_, err = service.AddDocument(ctx, patient, AddDocumentRequest{Title: "Scan"})
	assert.ErrorIs(t, err, ErrMissingDocumentURL)
}
