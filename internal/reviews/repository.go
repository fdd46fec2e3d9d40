package reviews

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists reviews.
type Repository interface {
	Create(ctx context.Context, rev *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*Review, error)
	SetResponse(ctx context.Context, id, response string) (*Review, error)
}

// InMemoryRepository keeps reviews in memory.
type InMemoryRepository struct {
	mu      sync.RWMutex
	reviews map[string]*Review
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{reviews: make(map[string]*Review)}
}

func (r *InMemoryRepository) Create(ctx context.Context, rev *Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reviews {
		if existing.AppointmentID == rev.AppointmentID {
			return ErrDuplicateReview
		}
	}
	if rev.ID == "" {
		rev.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	rev.CreatedAt = now
	rev.UpdatedAt = now

	stored := *rev
	r.reviews[rev.ID] = &stored
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rev, ok := r.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *rev
	return &copied, nil
}

func (r *InMemoryRepository) ListByDoctor(ctx context.Context, doctorID string) ([]*Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Review, 0)
	for _, rev := range r.reviews {
		if rev.DoctorID == doctorID {
			copied := *rev
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) SetResponse(ctx context.Context, id, response string) (*Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev, ok := r.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	rev.DoctorResponse = response
	rev.UpdatedAt = time.Now().UTC()

	copied := *rev
	return &copied, nil
}
