package ehr

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores health records in the ehr collection, one
// document per patient.
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection("ehr")}
}

func (r *MongoRepository) GetByPatient(ctx context.Context, patientID string) (*Record, error) {
	var rec Record
	err := r.collection.FindOne(ctx, bson.M{"patient_id": patientID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MongoRepository) Create(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	normalize(rec)

	_, err := r.collection.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the race to another creator; return the winner.
		existing, getErr := r.GetByPatient(ctx, rec.PatientID)
		if getErr != nil {
			return getErr
		}
		*rec = *existing
		return nil
	}
	return err
}

func (r *MongoRepository) Update(ctx context.Context, patientID string, upd UpdateRequest) (*Record, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.BloodGroup != nil {
		set["blood_group"] = *upd.BloodGroup
	}
	if upd.Allergies != nil {
		set["allergies"] = *upd.Allergies
	}
	if upd.Medications != nil {
		set["medications"] = *upd.Medications
	}
	if upd.History != nil {
		set["history"] = *upd.History
	}
	if upd.EmergencyContact != nil {
		set["emergency_contact"] = *upd.EmergencyContact
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec Record
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"patient_id": patientID}, bson.M{"$set": set}, opts).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// AddDocument pushes a document onto the record, creating the record if
// the patient has none yet.
func (r *MongoRepository) AddDocument(ctx context.Context, patientID string, doc Document) (*Record, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$push": bson.M{"documents": doc},
		"$set":  bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID().Hex(),
			"patient_id":  patientID,
			"allergies":   []string{},
			"medications": []string{},
			"history":     []string{},
			"created_at":  now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var rec Record
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"patient_id": patientID}, update, opts).Decode(&rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
