package calendar

import (
	"context"
	"time"

	"github.com/timeblock-app/timeblock-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCalendarRepository is an event repository for testing. It enforces the
// same event constraints as the real repository.
type MockCalendarRepository struct {
	Events []Event

	CreateCalls int
	DeleteCalls int
}

// FindAll finds all events of a user
func (m *MockCalendarRepository) FindAll(_ context.Context, userID string, dateRange *date.Timespan) ([]Event, error) {
	var events []Event

	for _, event := range m.Events {
		if event.UserID.Hex() != userID {
			continue
		}

		if dateRange != nil && !event.Date.IntersectsWith(*dateRange) {
			continue
		}

		events = append(events, event)
	}

	return events, nil
}

// FindByID finds a single event
func (m *MockCalendarRepository) FindByID(_ context.Context, id string, userID string) (*Event, error) {
	for i, event := range m.Events {
		if event.ID.Hex() == id && event.UserID.Hex() == userID {
			return &m.Events[i], nil
		}
	}

	return nil, ErrNotFound
}

// CreateBatch creates multiple events with per-item outcomes
func (m *MockCalendarRepository) CreateBatch(_ context.Context, events []*Event) []BatchCreateResult {
	m.CreateCalls++

	results := make([]BatchCreateResult, 0, len(events))

	for _, event := range events {
		result := BatchCreateResult{Event: event}

		err := CheckEventConstraints(event, m.Events)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		event.ID = primitive.NewObjectID()
		event.CreatedAt = time.Now()
		event.LastModifiedAt = time.Now()

		m.Events = append(m.Events, *event)
		results = append(results, result)
	}

	return results
}

// DeleteBatch deletes multiple events with per-item outcomes
func (m *MockCalendarRepository) DeleteBatch(_ context.Context, ids []primitive.ObjectID, userID string) []BatchDeleteResult {
	m.DeleteCalls++

	results := make([]BatchDeleteResult, 0, len(ids))

	for _, id := range ids {
		result := BatchDeleteResult{ID: id, Err: ErrNotFound}

		for i, event := range m.Events {
			if event.ID == id && event.UserID.Hex() == userID {
				m.Events = append(m.Events[:i], m.Events[i+1:]...)
				result.Err = nil
				break
			}
		}

		results = append(results, result)
	}

	return results
}

// Update persists a changed event
func (m *MockCalendarRepository) Update(_ context.Context, event *Event) error {
	err := CheckEventConstraints(event, m.Events)
	if err != nil {
		return err
	}

	for i, existing := range m.Events {
		if existing.ID == event.ID {
			event.LastModifiedAt = time.Now()
			m.Events[i] = *event
			return nil
		}
	}

	return ErrNotFound
}
