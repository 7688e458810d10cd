package tasks

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkingHours is the daily window blocks may be placed in, as whole clock
// hours with a half-open [StartHour, EndHour) interpretation
type WorkingHours struct {
	StartHour int `json:"startHour" bson:"startHour"`
	EndHour   int `json:"endHour" bson:"endHour"`
}

// DefaultWorkingHours is the fallback when a user has no schedule at all
var DefaultWorkingHours = WorkingHours{StartHour: 9, EndHour: 22}

// Schedule is a user-managed working-hours configuration
type Schedule struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId" validate:"required"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt"`
	Name           string             `json:"name" bson:"name"`

	WorkingHoursStart int  `json:"workingHoursStart" bson:"workingHoursStart" validate:"min=0,max=23"`
	WorkingHoursEnd   int  `json:"workingHoursEnd" bson:"workingHoursEnd" validate:"min=0,max=23,gtfield=WorkingHoursStart"`
	IsDefault         bool `json:"isDefault" bson:"isDefault"`
}

// WorkingHours returns the schedule's daily window
func (s *Schedule) WorkingHours() WorkingHours {
	return WorkingHours{StartHour: s.WorkingHoursStart, EndHour: s.WorkingHoursEnd}
}

// ScheduleBinding associates a task or a project with a schedule for a
// validity window; a zero EffectiveTo means the binding is open-ended
type ScheduleBinding struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	ScheduleID primitive.ObjectID `json:"scheduleId" bson:"scheduleId" validate:"required"`
	TaskID     primitive.ObjectID `json:"taskId,omitempty" bson:"taskId,omitempty"`
	ProjectID  primitive.ObjectID `json:"projectId,omitempty" bson:"projectId,omitempty"`

	EffectiveFrom time.Time `json:"effectiveFrom" bson:"effectiveFrom"`
	EffectiveTo   time.Time `json:"effectiveTo,omitempty" bson:"effectiveTo,omitempty"`
}

// ActiveAt reports whether the binding applies at the given instant
func (b *ScheduleBinding) ActiveAt(at time.Time) bool {
	if b.EffectiveFrom.After(at) {
		return false
	}

	return b.EffectiveTo.IsZero() || b.EffectiveTo.After(at)
}
