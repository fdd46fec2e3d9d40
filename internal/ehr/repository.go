package ehr

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists health records keyed by patient.
type Repository interface {
	GetByPatient(ctx context.Context, patientID string) (*Record, error)
	Create(ctx context.Context, rec *Record) error
	Update(ctx context.Context, patientID string, upd UpdateRequest) (*Record, error)
	AddDocument(ctx context.Context, patientID string, doc Document) (*Record, error)
}

// InMemoryRepository keeps health records in memory.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record // keyed by patient id
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]*Record)}
}

func (r *InMemoryRepository) GetByPatient(ctx context.Context, patientID string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (r *InMemoryRepository) Create(ctx context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.records[rec.PatientID]; ok {
		*rec = *cloneRecord(existing)
		return nil
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	normalize(rec)

	r.records[rec.PatientID] = cloneRecord(rec)
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, patientID string, upd UpdateRequest) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.BloodGroup != nil {
		rec.BloodGroup = *upd.BloodGroup
	}
	if upd.Allergies != nil {
		rec.Allergies = *upd.Allergies
	}
	if upd.Medications != nil {
		rec.Medications = *upd.Medications
	}
	if upd.History != nil {
		rec.History = *upd.History
	}
	if upd.EmergencyContact != nil {
		rec.EmergencyContact = *upd.EmergencyContact
	}
	rec.UpdatedAt = time.Now().UTC()
	normalize(rec)
	return cloneRecord(rec), nil
}

func (r *InMemoryRepository) AddDocument(ctx context.Context, patientID string, doc Document) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[patientID]
	if !ok {
		rec = &Record{
			ID:        uuid.New().String(),
			PatientID: patientID,
			CreatedAt: time.Now().UTC(),
		}
		normalize(rec)
		r.records[patientID] = rec
	}
	rec.Documents = append(rec.Documents, doc)
	rec.UpdatedAt = time.Now().UTC()
	return cloneRecord(rec), nil
}

func normalize(rec *Record) {
	if rec.Allergies == nil {
		rec.Allergies = []string{}
	}
	if rec.Medications == nil {
		rec.Medications = []string{}
	}
	if rec.History == nil {
		rec.History = []string{}
	}
	if rec.Documents == nil {
		rec.Documents = []Document{}
	}
}

func cloneRecord(rec *Record) *Record {
	copied := *rec
	copied.Allergies = append([]string(nil), rec.Allergies...)
	copied.Medications = append([]string(nil), rec.Medications...)
	copied.History = append([]string(nil), rec.History...)
	copied.Documents = append([]Document(nil), rec.Documents...)
	return &copied
}
