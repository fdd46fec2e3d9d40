package admin

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

// FacilityRepository persists hospitals and their departments.
type FacilityRepository interface {
	CreateHospital(ctx context.Context, h *Hospital) error
	ListHospitals(ctx context.Context) ([]*Hospital, error)
	HospitalExists(ctx context.Context, id string) (bool, error)
	CreateDepartment(ctx context.Context, d *Department) error
	ListDepartments(ctx context.Context, hospitalID string) ([]*Department, error)
}

// InMemoryFacilityRepository keeps facilities in memory.
type InMemoryFacilityRepository struct {
	mu          sync.RWMutex
	hospitals   map[string]*Hospital
	departments map[string]*Department
}

func NewInMemoryFacilityRepository() *InMemoryFacilityRepository {
	return &InMemoryFacilityRepository{
		hospitals:   make(map[string]*Hospital),
		departments: make(map[string]*Department),
	}
}

func (r *InMemoryFacilityRepository) CreateHospital(ctx context.Context, h *Hospital) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	h.CreatedAt = time.Now().UTC()
	stored := *h
	r.hospitals[h.ID] = &stored
	return nil
}

func (r *InMemoryFacilityRepository) ListHospitals(ctx context.Context) ([]*Hospital, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Hospital, 0, len(r.hospitals))
	for _, h := range r.hospitals {
		copied := *h
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *InMemoryFacilityRepository) HospitalExists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.hospitals[id]
	return ok, nil
}

func (r *InMemoryFacilityRepository) CreateDepartment(ctx context.Context, d *Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.CreatedAt = time.Now().UTC()
	stored := *d
	r.departments[d.ID] = &stored
	return nil
}

func (r *InMemoryFacilityRepository) ListDepartments(ctx context.Context, hospitalID string) ([]*Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Department, 0)
	for _, d := range r.departments {
		if hospitalID == "" || d.HospitalID == hospitalID {
			copied := *d
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// MongoFacilityRepository keeps facilities in the hospitals and
// departments collections.
type MongoFacilityRepository struct {
	hospitals   *mongo.Collection
	departments *mongo.Collection
}

func NewMongoFacilityRepository(db *mongo.Database) *MongoFacilityRepository {
	return &MongoFacilityRepository{
		hospitals:   db.Collection("hospitals"),
		departments: db.Collection("departments"),
	}
}

func (r *MongoFacilityRepository) CreateHospital(ctx context.Context, h *Hospital) error {
	if h.ID == "" {
		h.ID = primitive.NewObjectID().Hex()
	}
	h.CreatedAt = time.Now().UTC()
	_, err := r.hospitals.InsertOne(ctx, h)
	return err
}

func (r *MongoFacilityRepository) ListHospitals(ctx context.Context) ([]*Hospital, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.hospitals.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]*Hospital, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MongoFacilityRepository) HospitalExists(ctx context.Context, id string) (bool, error) {
	count, err := r.hospitals.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MongoFacilityRepository) CreateDepartment(ctx context.Context, d *Department) error {
	if d.ID == "" {
		d.ID = primitive.NewObjectID().Hex()
	}
	d.CreatedAt = time.Now().UTC()
	_, err := r.departments.InsertOne(ctx, d)
	return err
}

func (r *MongoFacilityRepository) ListDepartments(ctx context.Context, hospitalID string) ([]*Department, error) {
	filter := bson.M{}
	if hospitalID != "" {
		filter["hospital_id"] = hospitalID
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.departments.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]*Department, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}
