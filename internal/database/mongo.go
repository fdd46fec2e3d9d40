package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect establishes a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("database: connect failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("database: ping failed: %w", err)
	}

	return client.Database(dbName), nil
}

// EnsureIndexes creates the unique indexes the application relies on:
// one account per (email, role), one chat per appointment, one review
// per appointment, one EHR per patient.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string]mongo.IndexModel{
		"users": {
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "role", Value: 1}},
			Options: unique,
		},
		"chats": {
			Keys:    bson.D{{Key: "appointment_id", Value: 1}},
			Options: unique,
		},
		"reviews": {
			Keys:    bson.D{{Key: "appointment_id", Value: 1}},
			Options: unique,
		},
		"ehr": {
			Keys:    bson.D{{Key: "patient_id", Value: 1}},
			Options: unique,
		},
	}

	for coll, model := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("database: create index on %s failed: %w", coll, err)
		}
	}
	return nil
}
