package notifications

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for notification storage
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, userID string, isRead *bool, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID string) (*Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

// InMemoryRepository is a Repository backed by an in-memory map.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Notification
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]*Notification)}
}

func (r *InMemoryRepository) Create(ctx context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = uuid.New().String()
	n.IsRead = false
	n.CreatedAt = time.Now().UTC()
	r.items[n.ID] = n
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context, userID string, isRead *bool, limit int) ([]*Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Notification
	for _, n := range r.items {
		if n.UserID != userID {
			continue
		}
		if isRead != nil && n.IsRead != *isRead {
			continue
		}
		matched = append(matched, n)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *InMemoryRepository) MarkRead(ctx context.Context, id, userID string) (*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return nil, ErrNotFound
	}
	n.IsRead = true
	return n, nil
}

func (r *InMemoryRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}
