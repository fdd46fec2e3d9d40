package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/notifications"
	"github.com/carelinkhq/carelink-api/internal/users"
)

type recordingNotifier struct {
	sent []notifications.CreateRequest
}

func (n *recordingNotifier) Notify(_ context.Context, req notifications.CreateRequest) {
	n.sent = append(n.sent, req)
}

type fixture struct {
	service  *Service
	notifier *recordingNotifier
	patient  auth.Principal
	doctor   auth.Principal
	admin    auth.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	directory := users.NewInMemoryRepository()
	doctor := &users.User{Name: "Dr. Asha Rao", Email: "asha@clinic.test", Role: auth.RoleDoctor, IsActive: true, IsApproved: true}
	require.NoError(t, directory.Create(ctx, doctor))
	patient := &users.User{Name: "Ben Ortiz", Email: "ben@example.test", Role: auth.RolePatient, IsActive: true}
	require.NoError(t, directory.Create(ctx, patient))

	notifier := &recordingNotifier{}
	service := NewService(NewInMemoryRepository(), directory, notifier, nil, nil)

	return &fixture{
		service:  service,
		notifier: notifier,
		patient:  auth.Principal{ID: patient.ID, Role: auth.RolePatient},
		doctor:   auth.Principal{ID: doctor.ID, Role: auth.RoleDoctor},
		admin:    auth.Principal{ID: "admin-1", Role: auth.RoleAdmin},
	}
}

func (f *fixture) book(t *testing.T) *Appointment {
	t.Helper()
	appt, err := f.service.Create(context.Background(), f.patient, CreateRequest{
		DoctorID:    f.doctor.ID,
		ScheduledAt: time.Now().Add(48 * time.Hour),
		Sex:         "female",
		Reason:      "persistent cough",
	})
	require.NoError(t, err)
	return appt
}

func TestCreateStartsPendingAndNotifiesDoctorOnce(t *testing.T) {
	f := newFixture(t)

	appt := f.book(t)

	assert.Equal(t, StatusPending, appt.Status)
	assert.Equal(t, f.patient.ID, appt.PatientID)

	require.Len(t, f.notifier.sent, 1)
	note := f.notifier.sent[0]
	assert.Equal(t, f.doctor.ID, note.UserID)
	assert.Equal(t, "New Appointment Request", note.Title)
	assert.Equal(t, "/doctor/appointments/"+appt.ID, note.ActionURL)
	assert.Equal(t, "asha@clinic.test", note.Email)
}

func TestCreateRejectsUnknownDoctor(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), f.patient, CreateRequest{
		DoctorID:    "no-such-doctor",
		ScheduledAt: time.Now().Add(time.Hour),
		Sex:         "male",
		Reason:      "checkup",
	})
	assert.ErrorIs(t, err, ErrUnknownDoctor)
	assert.Empty(t, f.notifier.sent)
}

func TestCreateRejectsPatientAsDoctor(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), f.patient, CreateRequest{
		DoctorID:    f.patient.ID,
		ScheduledAt: time.Now().Add(time.Hour),
		Sex:         "male",
		Reason:      "checkup",
	})
	assert.ErrorIs(t, err, ErrUnknownDoctor)
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), f.patient, CreateRequest{
		DoctorID: f.doctor.ID,
		Sex:      "female",
		Reason:   "checkup",
	})
	assert.ErrorIs(t, err, ErrMissingSchedule)

	_, err = f.service.Create(context.Background(), f.patient, CreateRequest{
		DoctorID:    f.doctor.ID,
		ScheduledAt: time.Now().Add(time.Hour),
		Sex:         "female",
	})
	assert.ErrorIs(t, err, ErrMissingReason)
}

func TestStateMachineTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestUpdateStatusNotifiesPatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t)
	f.notifier.sent = nil

	updated, err := f.service.UpdateStatus(ctx, f.doctor, appt.ID, StatusConfirmed, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.Status)

	require.Len(t, f.notifier.sent, 1)
	note := f.notifier.sent[0]
	assert.Equal(t, f.patient.ID, note.UserID)
	assert.Equal(t, "Appointment Updated", note.Title)
	assert.Equal(t, "ben@example.test", note.Email)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t)

	_, err := f.service.UpdateStatus(ctx, f.doctor, appt.ID, StatusCompleted, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTerminalStatesAreFrozen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t)
	_, err := f.service.UpdateStatus(ctx, f.doctor, appt.ID, StatusConfirmed, nil)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, f.doctor, appt.ID, StatusCompleted, nil)
	require.NoError(t, err)

	for _, next := range []Status{StatusPending, StatusConfirmed, StatusCancelled} {
		_, err = f.service.UpdateStatus(ctx, f.doctor, appt.ID, next, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition, "completed -> %s", next)
	}

	got, err := f.service.Get(ctx, f.admin, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestUpdateStatusByUnassignedDoctorIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t)

	other := auth.Principal{ID: "another-doctor", Role: auth.RoleDoctor}
	_, err := f.service.UpdateStatus(ctx, other, appt.ID, StatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelAllowedFromPendingAndConfirmedOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t)
	cancelled, err := f.service.Cancel(ctx, f.patient, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = f.service.Cancel(ctx, f.patient, appt.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	second := f.book(t)
	_, err = f.service.UpdateStatus(ctx, f.doctor, second.ID, StatusConfirmed, nil)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, f.doctor, second.ID, StatusCompleted, nil)
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, f.patient, second.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListScopesByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t)

	mine, err := f.service.List(ctx, f.patient, "", false)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, appt.ID, mine[0].ID)

	stranger := auth.Principal{ID: "someone-else", Role: auth.RolePatient}
	theirs, err := f.service.List(ctx, stranger, "", false)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	all, err := f.service.List(ctx, f.admin, "", false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListFiltersByStatusAndSorts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Create(ctx, f.patient, CreateRequest{
		DoctorID:    f.doctor.ID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Sex:         "female",
		Reason:      "follow-up",
	})
	require.NoError(t, err)
	second, err := f.service.Create(ctx, f.patient, CreateRequest{
		DoctorID:    f.doctor.ID,
		ScheduledAt: time.Now().Add(72 * time.Hour),
		Sex:         "female",
		Reason:      "annual physical",
	})
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, f.doctor, first.ID, StatusConfirmed, nil)
	require.NoError(t, err)

	confirmed, err := f.service.List(ctx, f.doctor, StatusConfirmed, false)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, first.ID, confirmed[0].ID)

	desc, err := f.service.List(ctx, f.doctor, "", false)
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.Equal(t, second.ID, desc[0].ID)

	asc, err := f.service.List(ctx, f.doctor, "", true)
	require.NoError(t, err)
	assert.Equal(t, first.ID, asc[0].ID)
}

func TestGetHidesForeignAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t)

	stranger := auth.Principal{ID: "someone-else", Role: auth.RolePatient}
	_, err := f.service.Get(ctx, stranger, appt.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.service.Get(ctx, f.doctor, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, got.ID)
}
