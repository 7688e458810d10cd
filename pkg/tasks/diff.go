package tasks

import (
	"fmt"
	"sort"

	"github.com/timeblock-app/timeblock-backend/pkg/date"
	"github.com/timeblock-app/timeblock-backend/pkg/tasks/calendar"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventDiff is the minimal set of changes that turns the currently stored
// task events into the desired schedule
type EventDiff struct {
	ToCreate []calendar.Event
	ToDelete []calendar.Event
}

// IsEmpty reports whether the stored schedule already matches the desired one
func (d *EventDiff) IsEmpty() bool {
	return len(d.ToCreate) == 0 && len(d.ToDelete) == 0
}

// eventIdentity is the comparison key for diffing: the linked task plus the
// normalized interval, so semantically identical times always compare equal
func eventIdentity(taskID primitive.ObjectID, timespan date.Timespan) string {
	normalized := timespan.Normalize()
	return fmt.Sprintf("%s/%d/%d", taskID.Hex(), normalized.Start.Unix(), normalized.End.Unix())
}

// ComputeEventDiff compares the desired schedule against the stored events.
// Only non-completed task events take part on either side; completed events
// are frozen and plain or external events are never touched.
func ComputeEventDiff(desired []calendar.Event, current []calendar.Event) EventDiff {
	diff := EventDiff{}

	currentByIdentity := make(map[string]calendar.Event)
	for _, event := range current {
		if !event.IsTaskEvent() || event.IsCompleted() {
			continue
		}

		currentByIdentity[eventIdentity(event.LinkedTaskID, event.Date)] = event
	}

	desiredIdentities := make(map[string]bool)
	for _, event := range desired {
		if !event.IsTaskEvent() || event.IsCompleted() {
			continue
		}

		identity := eventIdentity(event.LinkedTaskID, event.Date)
		desiredIdentities[identity] = true

		if _, exists := currentByIdentity[identity]; !exists {
			diff.ToCreate = append(diff.ToCreate, event)
		}
	}

	for identity, event := range currentByIdentity {
		if !desiredIdentities[identity] {
			diff.ToDelete = append(diff.ToDelete, event)
		}
	}

	sort.Slice(diff.ToCreate, func(i, j int) bool {
		return diff.ToCreate[i].Date.Start.Before(diff.ToCreate[j].Date.Start)
	})
	sort.Slice(diff.ToDelete, func(i, j int) bool {
		return diff.ToDelete[i].Date.Start.Before(diff.ToDelete[j].Date.Start)
	})

	return diff
}
