package reviews

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores reviews in the reviews collection. A unique
// index on appointment_id enforces one review per appointment.
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection("reviews")}
}

func (r *MongoRepository) Create(ctx context.Context, rev *Review) error {
	if rev.ID == "" {
		rev.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	rev.CreatedAt = now
	rev.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, rev)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateReview
	}
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Review, error) {
	var rev Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *MongoRepository) ListByDoctor(ctx context.Context, doctorID string) ([]*Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"doctor_id": doctorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]*Review, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MongoRepository) SetResponse(ctx context.Context, id, response string) (*Review, error) {
	update := bson.M{"$set": bson.M{
		"doctor_response": response,
		"updated_at":      time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rev Review
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&rev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}
