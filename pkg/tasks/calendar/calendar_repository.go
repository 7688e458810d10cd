package calendar

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/timeblock-app/timeblock-backend/pkg/date"
	"github.com/timeblock-app/timeblock-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when an event does not exist
var ErrNotFound = errors.New("event not found")

// RepositoryInterface is the storage interface for calendar events
type RepositoryInterface interface {
	FindAll(ctx context.Context, userID string, dateRange *date.Timespan) ([]Event, error)
	FindByID(ctx context.Context, id string, userID string) (*Event, error)
	CreateBatch(ctx context.Context, events []*Event) []BatchCreateResult
	DeleteBatch(ctx context.Context, ids []primitive.ObjectID, userID string) []BatchDeleteResult
	Update(ctx context.Context, event *Event) error
}

// EventRepository does everything related to storing and finding calendar events
type EventRepository struct {
	DB     *mongo.Collection
	Logger logger.Interface
}

// FindAll finds all events of a user, optionally limited to a date range
func (r *EventRepository) FindAll(ctx context.Context, userID string, dateRange *date.Timespan) ([]Event, error) {
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"userId": userObjectID}
	if dateRange != nil {
		filter["date.start"] = bson.M{"$lt": dateRange.End}
		filter["date.end"] = bson.M{"$gt": dateRange.Start}
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"date.start": 1})

	cursor, err := r.DB.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}

	events := []Event{}
	err = cursor.All(ctx, &events)
	if err != nil {
		return nil, err
	}

	return events, nil
}

// FindByID finds a single event
func (r *EventRepository) FindByID(ctx context.Context, id string, userID string) (*Event, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	event := Event{}

	result := r.DB.FindOne(ctx, bson.M{"_id": objectID, "userId": userObjectID})
	if result.Err() != nil {
		if result.Err() == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, result.Err()
	}

	err = result.Decode(&event)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// CreateBatch creates multiple events and reports each item's outcome
// independently. Every event is checked against the overlap rules first.
func (r *EventRepository) CreateBatch(ctx context.Context, events []*Event) []BatchCreateResult {
	results := make([]BatchCreateResult, 0, len(events))

	for _, event := range events {
		result := BatchCreateResult{Event: event}

		others, err := r.FindAll(ctx, event.UserID.Hex(), &event.Date)
		if err != nil {
			result.Err = errors.Wrap(err, "could not load events for overlap check")
			results = append(results, result)
			continue
		}

		err = CheckEventConstraints(event, others)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		event.ID = primitive.NewObjectID()
		event.CreatedAt = time.Now()
		event.LastModifiedAt = time.Now()

		_, err = r.DB.InsertOne(ctx, event)
		if err != nil {
			result.Err = err
		}

		results = append(results, result)
	}

	return results
}

// DeleteBatch deletes multiple events and reports each item's outcome independently
func (r *EventRepository) DeleteBatch(ctx context.Context, ids []primitive.ObjectID, userID string) []BatchDeleteResult {
	results := make([]BatchDeleteResult, 0, len(ids))

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		for _, id := range ids {
			results = append(results, BatchDeleteResult{ID: id, Err: err})
		}
		return results
	}

	for _, id := range ids {
		result := BatchDeleteResult{ID: id}

		deletion, err := r.DB.DeleteOne(ctx, bson.M{"_id": id, "userId": userObjectID})
		if err != nil {
			result.Err = err
		} else if deletion.DeletedCount != 1 {
			result.Err = ErrNotFound
		}

		results = append(results, result)
	}

	return results
}

// Update persists a changed event after re-checking the overlap rules
func (r *EventRepository) Update(ctx context.Context, event *Event) error {
	others, err := r.FindAll(ctx, event.UserID.Hex(), &event.Date)
	if err != nil {
		return err
	}

	err = CheckEventConstraints(event, others)
	if err != nil {
		return err
	}

	event.LastModifiedAt = time.Now()

	result, err := r.DB.UpdateOne(ctx, bson.M{"_id": event.ID, "userId": event.UserID}, bson.M{"$set": event})
	if err != nil {
		return err
	}

	if result.MatchedCount != 1 {
		return ErrNotFound
	}

	return nil
}
