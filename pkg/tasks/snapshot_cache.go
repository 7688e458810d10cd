package tasks

import (
	"context"
	"time"

	"github.com/timeblock-app/timeblock-backend/pkg/date"
	"github.com/timeblock-app/timeblock-backend/pkg/tasks/calendar"
)

// ScheduleSnapshot is everything a reconciliation run loaded for one user.
// The lightweight check path recomputes the desired schedule against it
// purely in memory, so it also carries the resolved working hours per task.
type ScheduleSnapshot struct {
	UserID       string                  `json:"userId"`
	Tasks        []Task                  `json:"tasks"`
	Events       []calendar.Event        `json:"events"`
	WorkingHours map[string]WorkingHours `json:"workingHours"`
	ExternalBusy []date.Timespan         `json:"externalBusy"`
	TakenAt      time.Time               `json:"takenAt"`
}

// SnapshotCacheInterface caches the last loaded snapshot per user
type SnapshotCacheInterface interface {
	Add(ctx context.Context, key string, entry *ScheduleSnapshot) error
	Invalidate(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (*ScheduleSnapshot, error)
}
