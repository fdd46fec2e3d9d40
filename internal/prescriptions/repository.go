package prescriptions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists prescriptions.
type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id string) (*Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error)
}

// InMemoryRepository keeps prescriptions in memory.
type InMemoryRepository struct {
	mu            sync.RWMutex
	prescriptions map[string]*Prescription
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{prescriptions: make(map[string]*Prescription)}
}

func (r *InMemoryRepository) Create(ctx context.Context, p *Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now().UTC()

	stored := *p
	r.prescriptions[p.ID] = &stored
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.prescriptions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *InMemoryRepository) ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Prescription, 0)
	for _, p := range r.prescriptions {
		if p.PatientID == patientID {
			copied := *p
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
