package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationsCollection = "notifications"

// MongoRepository stores notifications in the notifications collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository initializes a repo backed by MongoDB.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	if db == nil {
		panic("notifications: mongo database required")
	}
	return &MongoRepository{coll: db.Collection(notificationsCollection)}
}

func (r *MongoRepository) Create(ctx context.Context, n *Notification) error {
	n.ID = primitive.NewObjectID().Hex()
	n.IsRead = false
	n.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("notifications: insert failed: %w", err)
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context, userID string, isRead *bool, limit int) ([]*Notification, error) {
	query := bson.M{"user_id": userID}
	if isRead != nil {
		query["is_read"] = *isRead
	}
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("notifications: find failed: %w", err)
	}
	var out []*Notification
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("notifications: decode failed: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) MarkRead(ctx context.Context, id, userID string) (*Notification, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var n Notification
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
		opts,
	).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("notifications: mark read failed: %w", err)
	}
	return &n, nil
}

func (r *MongoRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("notifications: mark all read failed: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("notifications: delete failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
