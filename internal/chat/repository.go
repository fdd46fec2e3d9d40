package chat

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists conversations.
type Repository interface {
	Create(ctx context.Context, c *Chat) error
	GetByAppointment(ctx context.Context, appointmentID string) (*Chat, error)
	ListForUser(ctx context.Context, userID string) ([]*Chat, error)
	AppendMessage(ctx context.Context, appointmentID string, msg Message) (*Chat, error)
	MarkRead(ctx context.Context, appointmentID, readerID string) error
}

// InMemoryRepository keeps conversations in memory.
type InMemoryRepository struct {
	mu    sync.RWMutex
	chats map[string]*Chat // keyed by appointment id
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{chats: make(map[string]*Chat)}
}

func (r *InMemoryRepository) Create(ctx context.Context, c *Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.chats[c.AppointmentID]; exists {
		return ErrDuplicateChat
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Messages == nil {
		c.Messages = []Message{}
	}

	stored := cloneChat(c)
	r.chats[c.AppointmentID] = stored
	return nil
}

func (r *InMemoryRepository) GetByAppointment(ctx context.Context, appointmentID string) (*Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.chats[appointmentID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneChat(c), nil
}

func (r *InMemoryRepository) ListForUser(ctx context.Context, userID string) ([]*Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Chat, 0)
	for _, c := range r.chats {
		if c.PatientID == userID || c.DoctorID == userID {
			result = append(result, cloneChat(c))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) AppendMessage(ctx context.Context, appointmentID string, msg Message) (*Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chats[appointmentID]
	if !ok {
		return nil, ErrNotFound
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now().UTC()
	return cloneChat(c), nil
}

func (r *InMemoryRepository) MarkRead(ctx context.Context, appointmentID, readerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chats[appointmentID]
	if !ok {
		return ErrNotFound
	}
	for i := range c.Messages {
		if c.Messages[i].SenderID != readerID {
			c.Messages[i].IsRead = true
		}
	}
	return nil
}

func cloneChat(c *Chat) *Chat {
	copied := *c
	copied.Messages = make([]Message, len(c.Messages))
	copy(copied.Messages, c.Messages)
	return &copied
}
