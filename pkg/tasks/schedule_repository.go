package tasks

import (
	"context"
	"time"

	"github.com/timeblock-app/timeblock-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduleRepositoryInterface is the storage interface for schedules and
// their task/project bindings. A lookup miss is reported as ErrScheduleNotFound
// or ErrBindingNotFound, distinguishable from transport errors.
type ScheduleRepositoryInterface interface {
	FindByID(ctx context.Context, scheduleID string, userID string) (*Schedule, error)
	FindDefaultForUser(ctx context.Context, userID string) (*Schedule, error)
	FindTaskBinding(ctx context.Context, taskID string, at time.Time) (*ScheduleBinding, error)
	FindProjectBinding(ctx context.Context, projectID string, at time.Time) (*ScheduleBinding, error)
}

// ScheduleRepository does everything related to storing and finding schedules
type ScheduleRepository struct {
	DB         *mongo.Collection
	BindingsDB *mongo.Collection
	Logger     logger.Interface
}

// FindByID finds a schedule by id
func (r *ScheduleRepository) FindByID(ctx context.Context, scheduleID string, userID string) (*Schedule, error) {
	scheduleObjectID, err := primitive.ObjectIDFromHex(scheduleID)
	if err != nil {
		return nil, err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	return r.decodeSchedule(r.DB.FindOne(ctx, bson.M{"_id": scheduleObjectID, "userId": userObjectID}))
}

// FindDefaultForUser finds the user's schedule flagged as default
func (r *ScheduleRepository) FindDefaultForUser(ctx context.Context, userID string) (*Schedule, error) {
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	return r.decodeSchedule(r.DB.FindOne(ctx, bson.M{"userId": userObjectID, "isDefault": true}))
}

func (r *ScheduleRepository) decodeSchedule(result *mongo.SingleResult) (*Schedule, error) {
	if result.Err() != nil {
		if result.Err() == mongo.ErrNoDocuments {
			return nil, ErrScheduleNotFound
		}
		return nil, result.Err()
	}

	schedule := Schedule{}
	err := result.Decode(&schedule)
	if err != nil {
		return nil, err
	}

	return &schedule, nil
}

// FindTaskBinding finds the binding active at the given instant for a task
func (r *ScheduleRepository) FindTaskBinding(ctx context.Context, taskID string, at time.Time) (*ScheduleBinding, error) {
	taskObjectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, err
	}

	return r.decodeBinding(r.BindingsDB.FindOne(ctx, activeBindingFilter(bson.M{"taskId": taskObjectID}, at)))
}

// FindProjectBinding finds the binding active at the given instant for a project
func (r *ScheduleRepository) FindProjectBinding(ctx context.Context, projectID string, at time.Time) (*ScheduleBinding, error) {
	projectObjectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, err
	}

	return r.decodeBinding(r.BindingsDB.FindOne(ctx, activeBindingFilter(bson.M{"projectId": projectObjectID}, at)))
}

func activeBindingFilter(filter bson.M, at time.Time) bson.M {
	filter["effectiveFrom"] = bson.M{"$lte": at}
	filter["$or"] = bson.A{
		bson.M{"effectiveTo": bson.M{"$exists": false}},
		bson.M{"effectiveTo": time.Time{}},
		bson.M{"effectiveTo": bson.M{"$gt": at}},
	}

	return filter
}

func (r *ScheduleRepository) decodeBinding(result *mongo.SingleResult) (*ScheduleBinding, error) {
	if result.Err() != nil {
		if result.Err() == mongo.ErrNoDocuments {
			return nil, ErrBindingNotFound
		}
		return nil, result.Err()
	}

	binding := ScheduleBinding{}
	err := result.Decode(&binding)
	if err != nil {
		return nil, err
	}

	return &binding, nil
}
