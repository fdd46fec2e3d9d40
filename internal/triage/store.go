package triage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists symptom checks.
type Store interface {
	Create(ctx context.Context, check *SymptomCheck) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*SymptomCheck, error)
	ListEmergencies(ctx context.Context, limit int) ([]*SymptomCheck, error)
}

const defaultHistoryLimit = 20

// InMemoryStore keeps checks in memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	checks map[string]*SymptomCheck
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{checks: make(map[string]*SymptomCheck)}
}

func (s *InMemoryStore) Create(ctx context.Context, check *SymptomCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if check.ID == "" {
		check.ID = uuid.New().String()
	}
	check.CreatedAt = time.Now().UTC()

	stored := *check
	s.checks[check.ID] = &stored
	return nil
}

func (s *InMemoryStore) ListByUser(ctx context.Context, userID string, limit int) ([]*SymptomCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	result := make([]*SymptomCheck, 0)
	for _, check := range s.checks {
		if check.UserID == userID {
			copied := *check
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *InMemoryStore) ListEmergencies(ctx context.Context, limit int) ([]*SymptomCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	result := make([]*SymptomCheck, 0)
	for _, check := range s.checks {
		if check.Result.Triage == TriageEmergency {
			copied := *check
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MongoStore keeps checks in the symptom_checks collection.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection("symptom_checks")}
}

func (s *MongoStore) Create(ctx context.Context, check *SymptomCheck) error {
	if check.ID == "" {
		check.ID = primitive.NewObjectID().Hex()
	}
	check.CreatedAt = time.Now().UTC()

	_, err := s.collection.InsertOne(ctx, check)
	return err
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string, limit int) ([]*SymptomCheck, error) {
	return s.find(ctx, bson.M{"user_id": userID}, limit)
}

func (s *MongoStore) ListEmergencies(ctx context.Context, limit int) ([]*SymptomCheck, error) {
	return s.find(ctx, bson.M{"result.triage": TriageEmergency}, limit)
}

func (s *MongoStore) find(ctx context.Context, filter bson.M, limit int) ([]*SymptomCheck, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]*SymptomCheck, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}
