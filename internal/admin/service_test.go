package admin

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/carelink-api/internal/appointments"
	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/notifications"
	"github.com/carelinkhq/carelink-api/internal/triage"
	"github.com/carelinkhq/carelink-api/internal/users"
)

type recordingNotifier struct {
	sent []notifications.CreateRequest
}

func (n *recordingNotifier) Notify(_ context.Context, req notifications.CreateRequest) {
	n.sent = append(n.sent, req)
}

type adminFixture struct {
	service  *Service
	users    *users.InMemoryRepository
	appts    *appointments.InMemoryRepository
	checks   *triage.InMemoryStore
	notifier *recordingNotifier
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	f := &adminFixture{
		users:    users.NewInMemoryRepository(),
		appts:    appointments.NewInMemoryRepository(),
		checks:   triage.NewInMemoryStore(),
		notifier: &recordingNotifier{},
	}
	f.service = NewService(f.users, f.appts, f.checks, NewInMemoryFacilityRepository(), f.notifier, nil)
	return f
}

func (f *adminFixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, f.users.Create(ctx, &users.User{
			Name:  fmt.Sprintf("Patient %d", i),
			Email: fmt.Sprintf("p%d@x.test", i),
			Role:  auth.RolePatient, IsActive: true,
		}))
	}
	require.NoError(t, f.users.Create(ctx, &users.User{
		Name: "Dr. Approved", Email: "ok@x.test", Role: auth.RoleDoctor,
		IsActive: true, IsApproved: true,
	}))
	require.NoError(t, f.users.Create(ctx, &users.User{
		Name: "Dr. Pending", Email: "new@x.test", Role: auth.RoleDoctor,
		IsActive: true,
	}))

	now := time.Now()
	for _, seed := range []struct {
		status appointments.Status
		at     time.Time
	}{
		{appointments.StatusPending, now.Add(15 * time.Minute)},
		{appointments.StatusPending, now.Add(72 * time.Hour)},
		{appointments.StatusCompleted, now.Add(20 * time.Minute)},
	} {
		appt := &appointments.Appointment{
			PatientID:   "p",
			DoctorID:    "d",
			ScheduledAt: seed.at,
			Status:      seed.status,
		}
		require.NoError(t, f.appts.Create(ctx, appt))
	}

	for i := 0; i < 7; i++ {
		require.NoError(t, f.checks.Create(ctx, &triage.SymptomCheck{
			UserID: fmt.Sprintf("p%d", i),
			Result: triage.Result{Triage: triage.TriageEmergency},
			Source: triage.SourceRedFlag,
		}))
	}
}

func TestDashboardAggregation(t *testing.T) {
	f := newAdminFixture(t)
	f.seed(t)

	stats, err := f.service.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalPatients)
	assert.Equal(t, int64(2), stats.TotalDoctors)
	assert.Equal(t, 1, stats.PendingDoctors)
	assert.Equal(t, 3, stats.TotalAppointments)
	assert.Equal(t, 2, stats.AppointmentsByState["pending"])
	assert.Equal(t, 1, stats.AppointmentsByState["completed"])
	assert.Equal(t, 2, stats.TodayAppointments)
	assert.Equal(t, int64(5), stats.ActiveUsers)
	require.Len(t, stats.EmergencyAlerts, 1)
	assert.Equal(t, appointments.StatusPending, stats.EmergencyAlerts[0].Status)
	assert.Len(t, stats.TriageAlerts, 5)
}

func TestSetUserStatusNotifiesOwner(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	u := &users.User{Name: "Ben", Email: "ben@x.test", Role: auth.RolePatient, IsActive: true}
	require.NoError(t, f.users.Create(ctx, u))

	updated, err := f.service.SetUserStatus(ctx, u.ID, StatusRequest{Active: false, Reason: "abuse"})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "Account Suspended", f.notifier.sent[0].Title)
	assert.Contains(t, f.notifier.sent[0].Message, "abuse")

	_, err = f.service.SetUserStatus(ctx, u.ID, StatusRequest{Active: true})
	require.NoError(t, err)
	assert.Equal(t, "Account Reactivated", f.notifier.sent[1].Title)
}

func TestSetUserStatusUnknownUser(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.service.SetUserStatus(context.Background(), "missing", StatusRequest{Active: false})
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestAnalyticsCountsSignupsAndStatuses(t *testing.T) {
	f := newAdminFixture(t)
	f.seed(t)

	report, err := f.service.Analytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.AppointmentsByState["pending"])
	total := 0
	for _, day := range report.PatientSignups {
		total += day.Count
	}
	assert.Equal(t, 3, total)
}

func TestHospitalAndDepartmentManagement(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateHospital(ctx, HospitalRequest{Name: "City General"})
	assert.ErrorIs(t, err, ErrMissingAddress)

	hospital, err := f.service.CreateHospital(ctx, HospitalRequest{Name: "City General", Address: "1 Main St"})
	require.NoError(t, err)

	_, err = f.service.CreateDepartment(ctx, DepartmentRequest{HospitalID: "missing", Name: "Cardiology"})
	assert.ErrorIs(t, err, ErrHospitalNotFound)

	_, err = f.service.CreateDepartment(ctx, DepartmentRequest{HospitalID: hospital.ID, Name: "Cardiology"})
	require.NoError(t, err)

	hospitals, err := f.service.ListHospitals(ctx)
	require.NoError(t, err)
	assert.Len(t, hospitals, 1)

	departments, err := f.service.ListDepartments(ctx, hospital.ID)
	require.NoError(t, err)
	assert.Len(t, departments, 1)
}
