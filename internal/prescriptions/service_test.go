package prescriptions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/carelink-api/internal/appointments"
	"github.com/carelinkhq/carelink-api/internal/auth"
)

type stubAppointments struct {
	byID map[string]*appointments.Appointment
}

func (s *stubAppointments) GetByID(_ context.Context, id string) (*appointments.Appointment, error) {
	appt, ok := s.byID[id]
	if !ok {
		return nil, appointments.ErrNotFound
	}
	return appt, nil
}

func newService(t *testing.T) (*Service, *appointments.Appointment, auth.Principal, auth.Principal) {
	t.Helper()

	patient := auth.Principal{ID: "patient-1", Role: auth.RolePatient}
	doctor := auth.Principal{ID: "doctor-1", Role: auth.RoleDoctor}
	appt := &appointments.Appointment{
		ID:          "appt-1",
		PatientID:   patient.ID,
		DoctorID:    doctor.ID,
		ScheduledAt: time.Now(),
		Status:      appointments.StatusCompleted,
	}
	service := NewService(
		NewInMemoryRepository(),
		&stubAppointments{byID: map[string]*appointments.Appointment{appt.ID: appt}},
		nil,
	)
	return service, appt, doctor, patient
}

func validRequest(apptID string) CreateRequest {
	return CreateRequest{
		AppointmentID: apptID,
		Medicines: []Medicine{
			{Name: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "7 days"},
		},
		Diagnosis: "bacterial sinusitis",
	}
}

func TestCreatePrescription(t *testing.T) {
	service, appt, doctor, _ := newService(t)

	p, err := service.Create(context.Background(), doctor, validRequest(appt.ID))
	require.NoError(t, err)
	assert.Equal(t, appt.PatientID, p.PatientID)
	assert.Equal(t, doctor.ID, p.DoctorID)
	assert.Len(t, p.Medicines, 1)
}

func TestCreateRequiresExistingAppointment(t *testing.T) {
	service, _, doctor, _ := newService(t)

	_, err := service.Create(context.Background(), doctor, validRequest("missing"))
	assert.ErrorIs(t, err, ErrUnknownAppointment)
}

func TestCreateByUntreatingDoctorIsNotFound(t *testing.T) {
	service, appt, _, _ := newService(t)

	other := auth.Principal{ID: "doctor-2", Role: auth.RoleDoctor}
	_, err := service.Create(context.Background(), other, validRequest(appt.ID))
	assert.ErrorIs(t, err, ErrUnknownAppointment)
}

func TestCreateValidation(t *testing.T) {
	service, appt, doctor, _ := newService(t)
	ctx := context.Background()

	req := validRequest(appt.ID)
	req.Medicines = nil
	_, err := service.Create(ctx, doctor, req)
	assert.ErrorIs(t, err, ErrMissingMedicines)

	req = validRequest(appt.ID)
	req.Diagnosis = ""
	_, err = service.Create(ctx, doctor, req)
	assert.ErrorIs(t, err, ErrMissingDiagnosis)

	req = validRequest(appt.ID)
	req.Medicines[0].Name = " "
	_, err = service.Create(ctx, doctor, req)
	assert.ErrorIs(t, err, ErrMissingMedicineName)
}

func TestGetRestrictedToParticipants(t *testing.T) {
	service, appt, doctor, patient := newService(t)
	ctx := context.Background()

	p, err := service.Create(ctx, doctor, validRequest(appt.ID))
	require.NoError(t, err)

	_, err = service.Get(ctx, patient, p.ID)
	assert.NoError(t, err)

	stranger := auth.Principal{ID: "stranger", Role: auth.RolePatient}
	_, err = service.Get(ctx, stranger, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	admin := auth.Principal{ID: "admin-1", Role: auth.RoleAdmin}
	_, err = service.Get(ctx, admin, p.ID)
	assert.NoError(t, err)
}

func TestListForPatientScoping(t *testing.T) {
	service, appt, doctor, patient := newService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, doctor, validRequest(appt.ID))
	require.NoError(t, err)

	own, err := service.ListForPatient(ctx, patient, "")
	require.NoError(t, err)
	assert.Len(t, own, 1)

	// A patient naming another patient still only sees their own.
	forced, err := service.ListForPatient(ctx, patient, "someone-else")
	require.NoError(t, err)
	assert.Len(t, forced, 1)
	assert.Equal(t, patient.ID, forced[0].PatientID)

	named, err := service.ListForPatient(ctx, doctor, patient.ID)
	require.NoError(t, err)
	assert.Len(t, named, 1)
}
