package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carelinkhq/carelink-api/internal/auth"
)

const usersCollection = "users"

// MongoRepository stores accounts in the users collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository initializes a repo backed by MongoDB.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	if db == nil {
		panic("users: mongo database required")
	}
	return &MongoRepository{coll: db.Collection(usersCollection)}
}

// Create inserts a new account. Duplicate (email, role) pairs surface as
// ErrDuplicateEmail via the unique index.
func (r *MongoRepository) Create(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID().Hex()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("users: insert failed: %w", err)
	}
	return nil
}

func (r *MongoRepository) GetByEmail(ctx context.Context, role auth.Role, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email, "role": role})
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var u User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("users: find failed: %w", err)
	}
	return &u, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]*User, int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Active != nil {
		query["is_active"] = *filter.Active
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = []bson.M{{"name": pattern}, {"email": pattern}}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("users: count failed: %w", err)
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("users: find failed: %w", err)
	}
	var out []*User
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("users: decode failed: %w", err)
	}
	return out, total, nil
}

func (r *MongoRepository) ListDoctors(ctx context.Context, filter DoctorFilter) ([]*User, error) {
	query := bson.M{"role": auth.RoleDoctor}
	if filter.Specialization != "" {
		query["specialization"] = filter.Specialization
	}
	if filter.Approved != nil {
		query["is_approved"] = *filter.Approved
	}
	if filter.MinRating > 0 {
		query["rating"] = bson.M{"$gte": filter.MinRating}
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = []bson.M{{"name": pattern}, {"specialization": pattern}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("users: find doctors failed: %w", err)
	}
	var out []*User
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("users: decode doctors failed: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Specialization != nil {
		set["specialization"] = *upd.Specialization
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (r *MongoRepository) SetApproval(ctx context.Context, id string, approved bool) (*User, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": id, "role": auth.RoleDoctor},
		bson.M{"$set": bson.M{"is_approved": approved, "updated_at": time.Now().UTC()}})
}

func (r *MongoRepository) SetActive(ctx context.Context, id string, active bool, reason string) (*User, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": active, "status_reason": reason, "updated_at": time.Now().UTC()}})
}

func (r *MongoRepository) UpdateRating(ctx context.Context, doctorID string, rating float64, total int) error {
	_, err := r.findOneAndUpdate(ctx,
		bson.M{"_id": doctorID, "role": auth.RoleDoctor},
		bson.M{"$set": bson.M{"rating": rating, "total_reviews": total, "updated_at": time.Now().UTC()}})
	return err
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("users: delete failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u User
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("users: update failed: %w", err)
	}
	return &u, nil
}
