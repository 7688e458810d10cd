package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the model for a user
type User struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt"`
	Email          string             `json:"email" bson:"email" validate:"required,email"`
	Name           string             `json:"name" bson:"name"`

	Settings Settings `json:"settings" bson:"settings"`
}

// Settings hold user settings
type Settings struct {
	Scheduling SchedulingSettings `json:"scheduling" bson:"scheduling"`
}

// SchedulingSettings are the user's scheduling preferences
type SchedulingSettings struct {
	TimeZone string `json:"timeZone" bson:"timeZone"`

	// ActiveScheduleID designates the schedule to use when no task or project
	// override applies; empty means the schedule flagged as default
	ActiveScheduleID primitive.ObjectID `json:"activeScheduleId,omitempty" bson:"activeScheduleId,omitempty"`
}

// Location resolves the user's time zone, falling back to UTC
func (u *User) Location() *time.Location {
	if u.Settings.Scheduling.TimeZone == "" {
		return time.UTC
	}

	location, err := time.LoadLocation(u.Settings.Scheduling.TimeZone)
	if err != nil {
		return time.UTC
	}

	return location
}
