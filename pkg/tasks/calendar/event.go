package calendar

import (
	"time"

	"github.com/timeblock-app/timeblock-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Type declares in which external calendar implementation an event originated
type Type string

const (
	// CalendarTypeGoogleCalendar marks events synced from Google Calendar
	CalendarTypeGoogleCalendar Type = "google_calendar"
)

// Event represents a calendar event. An event is either a plain event or a
// task event; the presence of LinkedTaskID is the discriminant.
type Event struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId" validate:"required"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt"`
	Title          string             `json:"title" bson:"title" validate:"required"`
	Description    string             `json:"description" bson:"description"`
	Date           date.Timespan      `json:"date" bson:"date" validate:"required"`

	// LinkedTaskID is set on events the scheduling engine created for a task
	LinkedTaskID primitive.ObjectID `json:"linkedTaskId,omitempty" bson:"linkedTaskId,omitempty"`
	CompletedAt  time.Time          `json:"completedAt,omitempty" bson:"completedAt,omitempty"`

	// CalendarType and CalendarEventID are set on events mirrored from an
	// external calendar; those events are never created, moved or deleted here
	CalendarType    Type   `json:"calendarType,omitempty" bson:"calendarType,omitempty"`
	CalendarEventID string `json:"calendarEventId,omitempty" bson:"calendarEventId,omitempty"`
}

// IsTaskEvent reports whether the event is linked to a task
func (e *Event) IsTaskEvent() bool {
	return !e.LinkedTaskID.IsZero()
}

// IsCompleted reports whether a task event has been marked as completed
func (e *Event) IsCompleted() bool {
	return !e.CompletedAt.IsZero()
}

// IsExternal reports whether the event is mirrored from an external calendar
func (e *Event) IsExternal() bool {
	return e.CalendarEventID != ""
}

// BatchCreateResult is the per-item outcome of a batch creation
type BatchCreateResult struct {
	Event *Event `json:"event,omitempty"`
	Err   error  `json:"error,omitempty"`
}

// Success reports whether the item was created
func (r *BatchCreateResult) Success() bool {
	return r.Err == nil
}

// BatchDeleteResult is the per-item outcome of a batch deletion
type BatchDeleteResult struct {
	ID  primitive.ObjectID `json:"id"`
	Err error              `json:"error,omitempty"`
}

// Success reports whether the item was deleted
func (r *BatchDeleteResult) Success() bool {
	return r.Err == nil
}
