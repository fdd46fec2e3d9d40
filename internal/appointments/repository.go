package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists appointments.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]*Appointment, error)
	UpdateStatus(ctx context.Context, id string, status Status, notes *string) (*Appointment, error)
}

// InMemoryRepository keeps appointments in memory for tests and local runs.
type InMemoryRepository struct {
	mu           sync.RWMutex
	appointments map[string]*Appointment
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appointments: make(map[string]*Appointment)}
}

func (r *InMemoryRepository) Create(ctx context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	stored := *appt
	r.appointments[appt.ID] = &stored
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *appt
	return &copied, nil
}

func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Appointment, 0)
	for _, appt := range r.appointments {
		if filter.PatientID != "" && appt.PatientID != filter.PatientID {
			continue
		}
		if filter.DoctorID != "" && appt.DoctorID != filter.DoctorID {
			continue
		}
		if filter.Status != "" && appt.Status != filter.Status {
			continue
		}
		copied := *appt
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		if filter.Ascending {
			return result[i].ScheduledAt.Before(result[j].ScheduledAt)
		}
		return result[i].ScheduledAt.After(result[j].ScheduledAt)
	})
	return result, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status, notes *string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	appt.Status = status
	if notes != nil {
		appt.Notes = *notes
	}
	appt.UpdatedAt = time.Now().UTC()

	copied := *appt
	return &copied, nil
}
