package users

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/timeblock-app/timeblock-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a user does not exist
var ErrNotFound = errors.New("user not found")

// UserRepositoryInterface is an interface for a *UserRepository
type UserRepositoryInterface interface {
	Add(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// UserRepository does everything related to storing and finding users
type UserRepository struct {
	DB     *mongo.Collection
	Logger logger.Interface
}

// Add adds a user
func (r *UserRepository) Add(ctx context.Context, user *User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.LastModifiedAt = time.Now()

	_, err := r.DB.InsertOne(ctx, user)
	return err
}

// FindByID finds a user by id
func (r *UserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	user := User{}

	result := r.DB.FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		if result.Err() == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, result.Err()
	}

	err = result.Decode(&user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, user *User) error {
	user.LastModifiedAt = time.Now()

	result, err := r.DB.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": user})
	if err != nil {
		return err
	}

	if result.MatchedCount != 1 {
		return ErrNotFound
	}

	return nil
}
