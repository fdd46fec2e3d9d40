package doctors

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Slot is one recurring weekly consultation window.
type Slot struct {
	Day   string `json:"day" bson:"day"`
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// Availability is a doctor's full weekly schedule. Writes replace the
// schedule wholesale rather than patching individual slots.
type Availability struct {
	DoctorID  string    `json:"doctor_id" bson:"doctor_id"`
	Slots     []Slot    `json:"slots" bson:"slots"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

var validDays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// ValidateSlots checks day names and that every slot has both bounds.
func ValidateSlots(slots []Slot) error {
	for _, slot := range slots {
		if !validDays[strings.ToLower(slot.Day)] {
			return ErrInvalidSlotDay
		}
		if strings.TrimSpace(slot.Start) == "" || strings.TrimSpace(slot.End) == "" {
			return ErrInvalidSlotTime
		}
	}
	return nil
}

var (
	ErrInvalidSlotDay  = errors.New("slot day must be a weekday name")
	ErrInvalidSlotTime = errors.New("slot start and end are required")
)

// AvailabilityRepository persists weekly schedules.
type AvailabilityRepository interface {
	Get(ctx context.Context, doctorID string) (*Availability, error)
	Replace(ctx context.Context, av *Availability) error
}

// InMemoryAvailabilityRepository keeps schedules in memory.
type InMemoryAvailabilityRepository struct {
	mu        sync.RWMutex
	schedules map[string]*Availability
}

func NewInMemoryAvailabilityRepository() *InMemoryAvailabilityRepository {
	return &InMemoryAvailabilityRepository{schedules: make(map[string]*Availability)}
}

func (r *InMemoryAvailabilityRepository) Get(ctx context.Context, doctorID string) (*Availability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	av, ok := r.schedules[doctorID]
	if !ok {
		return &Availability{DoctorID: doctorID, Slots: []Slot{}}, nil
	}
	copied := *av
	copied.Slots = append([]Slot(nil), av.Slots...)
	return &copied, nil
}

func (r *InMemoryAvailabilityRepository) Replace(ctx context.Context, av *Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	av.UpdatedAt = time.Now().UTC()
	if av.Slots == nil {
		av.Slots = []Slot{}
	}
	stored := *av
	stored.Slots = append([]Slot(nil), av.Slots...)
	r.schedules[av.DoctorID] = &stored
	return nil
}

// MongoAvailabilityRepository keeps schedules in the availability
// collection, one document per doctor.
type MongoAvailabilityRepository struct {
	collection *mongo.Collection
}

func NewMongoAvailabilityRepository(db *mongo.Database) *MongoAvailabilityRepository {
	return &MongoAvailabilityRepository{collection: db.Collection("availability")}
}

func (r *MongoAvailabilityRepository) Get(ctx context.Context, doctorID string) (*Availability, error) {
	var av Availability
	err := r.collection.FindOne(ctx, bson.M{"doctor_id": doctorID}).Decode(&av)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &Availability{DoctorID: doctorID, Slots: []Slot{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &av, nil
}

func (r *MongoAvailabilityRepository) Replace(ctx context.Context, av *Availability) error {
	av.UpdatedAt = time.Now().UTC()
	if av.Slots == nil {
		av.Slots = []Slot{}
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"doctor_id": av.DoctorID}, av, opts)
	return err
}
