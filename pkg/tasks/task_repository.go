package tasks

import (
	"context"
	"time"

	"github.com/timeblock-app/timeblock-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskRepositoryInterface is an interface for a *MongoDBTaskRepository
type TaskRepositoryInterface interface {
	Add(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	FindAll(ctx context.Context, userID string) ([]Task, error)
	FindByID(ctx context.Context, taskID string, userID string) (*Task, error)
	Delete(ctx context.Context, taskID string, userID string) error
}

// MongoDBTaskRepository does everything related to storing and finding tasks
type MongoDBTaskRepository struct {
	DB     *mongo.Collection
	Logger logger.Interface
}

// Add adds a task
func (r *MongoDBTaskRepository) Add(ctx context.Context, task *Task) error {
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()
	task.LastModifiedAt = time.Now()

	if task.Status == "" {
		task.Status = StatusNotStarted
	}

	_, err := r.DB.InsertOne(ctx, task)
	return err
}

// Update updates a task
func (r *MongoDBTaskRepository) Update(ctx context.Context, task *Task) error {
	task.LastModifiedAt = time.Now()

	result, err := r.DB.UpdateOne(ctx, bson.M{"_id": task.ID, "userId": task.UserID}, bson.M{"$set": task})
	if err != nil {
		return err
	}

	if result.MatchedCount != 1 {
		return ErrTaskNotFound
	}

	return nil
}

// FindAll finds all tasks of a user
func (r *MongoDBTaskRepository) FindAll(ctx context.Context, userID string) ([]Task, error) {
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"dueAt": 1})

	cursor, err := r.DB.Find(ctx, bson.M{"userId": userObjectID}, findOptions)
	if err != nil {
		return nil, err
	}

	tasks := []Task{}
	err = cursor.All(ctx, &tasks)
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// FindByID finds a specific task
func (r *MongoDBTaskRepository) FindByID(ctx context.Context, taskID string, userID string) (*Task, error) {
	taskObjectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	task := Task{}

	result := r.DB.FindOne(ctx, bson.M{"_id": taskObjectID, "userId": userObjectID})
	if result.Err() != nil {
		if result.Err() == mongo.ErrNoDocuments {
			return nil, ErrTaskNotFound
		}
		return nil, result.Err()
	}

	err = result.Decode(&task)
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// Delete removes a task
func (r *MongoDBTaskRepository) Delete(ctx context.Context, taskID string, userID string) error {
	taskObjectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	result, err := r.DB.DeleteOne(ctx, bson.M{"_id": taskObjectID, "userId": userObjectID})
	if err != nil {
		return err
	}

	if result.DeletedCount != 1 {
		return ErrTaskNotFound
	}

	return nil
}
