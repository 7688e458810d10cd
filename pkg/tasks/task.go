package tasks

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority is the importance of a task
type Priority string

// The priorities a task can have
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Weight returns a comparable weight for a priority, higher is more important
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Status is the progress state of a task
type Status string

// The states a task can be in
const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Task is the model for a task
type Task struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId" validate:"required"`
	ProjectID      primitive.ObjectID `json:"projectId,omitempty" bson:"projectId,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt"`
	Name           string             `json:"name" bson:"name" validate:"required"`
	Description    string             `json:"description" bson:"description"`

	Priority Priority `json:"priority" bson:"priority" validate:"required,oneof=low medium high"`
	Status   Status   `json:"status" bson:"status" validate:"oneof=not-started in-progress completed"`

	// DueAt is inclusive through the end of its day; the zero value means no due date
	DueAt time.Time `json:"dueAt,omitempty" bson:"dueAt,omitempty"`

	// PlannedDuration is the target total work, ActualDuration the work already
	// logged. ActualDuration never exceeds PlannedDuration; the completion
	// bookkeeping maintains that invariant.
	PlannedDuration time.Duration `json:"plannedDuration" bson:"plannedDuration" validate:"min=0"`
	ActualDuration  time.Duration `json:"actualDuration" bson:"actualDuration" validate:"min=0"`

	// Dependencies and BlockedBy only sequence allocation across separate runs;
	// no precedence is enforced inside a single run
	Dependencies []primitive.ObjectID `json:"dependencies,omitempty" bson:"dependencies,omitempty"`
	BlockedBy    []primitive.ObjectID `json:"blockedBy,omitempty" bson:"blockedBy,omitempty"`
}

// HasDueDate reports whether a due date is set
func (t *Task) HasDueDate() bool {
	return !t.DueAt.IsZero()
}

// HasProject reports whether the task belongs to a project
func (t *Task) HasProject() bool {
	return !t.ProjectID.IsZero()
}

// RemainingPlannedWork is the work not yet logged, never negative
func (t *Task) RemainingPlannedWork() time.Duration {
	remaining := t.PlannedDuration - t.ActualDuration
	if remaining < 0 {
		return 0
	}
	return remaining
}
