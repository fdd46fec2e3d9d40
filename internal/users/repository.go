package users

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carelinkhq/carelink-api/internal/auth"
)

// Repository defines the interface for account storage
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, role auth.Role, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
	ListDoctors(ctx context.Context, filter DoctorFilter) ([]*User, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) (*User, error)
	SetApproval(ctx context.Context, id string, approved bool) (*User, error)
	SetActive(ctx context.Context, id string, active bool, reason string) (*User, error)
	UpdateRating(ctx context.Context, doctorID string, rating float64, total int) error
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is a Repository backed by an in-memory map, used in
// tests and database-less local runs.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

// Create stores a new account, enforcing the (email, role) unique key.
func (r *InMemoryRepository) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Role == u.Role && existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}

	now := time.Now().UTC()
	u.ID = uuid.New().String()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = u
	return nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, role auth.Role, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Role == role && u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

// List returns users matching the filter plus the unpaginated total.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Active != nil && u.IsActive != *filter.Active {
			continue
		}
		if filter.Search != "" && !containsFold(u.Name, filter.Search) && !containsFold(u.Email, filter.Search) {
			continue
		}
		matched = append(matched, u)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *InMemoryRepository) ListDoctors(ctx context.Context, filter DoctorFilter) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*User
	for _, u := range r.users {
		if u.Role != auth.RoleDoctor {
			continue
		}
		if filter.Specialization != "" && u.Specialization != filter.Specialization {
			continue
		}
		if filter.Approved != nil && u.IsApproved != *filter.Approved {
			continue
		}
		if filter.MinRating > 0 && u.Rating < filter.MinRating {
			continue
		}
		if filter.Search != "" && !containsFold(u.Name, filter.Search) && !containsFold(u.Specialization, filter.Search) {
			continue
		}
		matched = append(matched, u)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Rating > matched[j].Rating
	})
	return matched, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Specialization != nil {
		u.Specialization = *upd.Specialization
	}
	u.UpdatedAt = time.Now().UTC()
	return u, nil
}

func (r *InMemoryRepository) SetApproval(ctx context.Context, id string, approved bool) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.Role != auth.RoleDoctor {
		return nil, ErrNotFound
	}
	u.IsApproved = approved
	u.UpdatedAt = time.Now().UTC()
	return u, nil
}

func (r *InMemoryRepository) SetActive(ctx context.Context, id string, active bool, reason string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.IsActive = active
	u.StatusReason = reason
	u.UpdatedAt = time.Now().UTC()
	return u, nil
}

func (r *InMemoryRepository) UpdateRating(ctx context.Context, doctorID string, rating float64, total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[doctorID]
	if !ok || u.Role != auth.RoleDoctor {
		return ErrNotFound
	}
	u.Rating = rating
	u.TotalReviews = total
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
