package calendar

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidTimespan is returned when an event's end is not after its start
var ErrInvalidTimespan = errors.New("event end must be after start")

// ErrOverlapRejected is returned when an event would intersect another event of the same user
var ErrOverlapRejected = errors.New("event overlaps an existing event")

// CheckEventConstraints validates an event against the user's other events
// before it is created or moved. The timespan has to be well formed and must
// not intersect any other event of the same user; externally synced events may
// overlap anything. Violations are hard rejections.
func CheckEventConstraints(event *Event, others []Event) error {
	if !event.Date.IsStartBeforeEnd() {
		return errors.Wrap(ErrInvalidTimespan, event.Date.String())
	}

	if event.IsExternal() {
		return nil
	}

	for i := range others {
		other := &others[i]

		if other.ID == event.ID {
			continue
		}

		if other.UserID != event.UserID || other.IsExternal() {
			continue
		}

		if event.Date.IntersectsWith(other.Date) {
			return errors.Wrap(ErrOverlapRejected, fmt.Sprintf("event %s intersects %s", event.Date.String(), other.Date.String()))
		}
	}

	return nil
}
