package chat

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores conversations in the chats collection. A unique
// index on appointment_id enforces one chat per appointment.
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection("chats")}
}

func (r *MongoRepository) Create(ctx context.Context, c *Chat) error {
	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Messages == nil {
		c.Messages = []Message{}
	}

	_, err := r.collection.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateChat
	}
	return err
}

func (r *MongoRepository) GetByAppointment(ctx context.Context, appointmentID string) (*Chat, error) {
	var c Chat
	err := r.collection.FindOne(ctx, bson.M{"appointment_id": appointmentID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *MongoRepository) ListForUser(ctx context.Context, userID string) ([]*Chat, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"patient_id": userID},
		bson.M{"doctor_id": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]*Chat, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MongoRepository) AppendMessage(ctx context.Context, appointmentID string, msg Message) (*Chat, error) {
	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c Chat
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"appointment_id": appointmentID}, update, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkRead flips is_read on every message the reader did not send.
func (r *MongoRepository) MarkRead(ctx context.Context, appointmentID, readerID string) error {
	update := bson.M{"$set": bson.M{"messages.$[m].is_read": true}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{
			"m.sender_id": bson.M{"$ne": readerID},
			"m.is_read":   false,
		}},
	})

	result, err := r.collection.UpdateOne(ctx, bson.M{"appointment_id": appointmentID}, update, opts)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
