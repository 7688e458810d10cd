package tasks

import (
	"testing"
	"time"

	"github.com/timeblock-app/timeblock-backend/pkg/date"
	"github.com/timeblock-app/timeblock-backend/pkg/tasks/calendar"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func taskEvent(taskID primitive.ObjectID, userID primitive.ObjectID, start time.Time, end time.Time) calendar.Event {
	return calendar.Event{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Title:        "block",
		Date:         date.Timespan{Start: start, End: end},
		LinkedTaskID: taskID,
	}
}

func TestComputeEventDiff(t *testing.T) {
	userID := primitive.NewObjectID()
	taskID := primitive.NewObjectID()

	kept := taskEvent(taskID, userID, timeDate(2021, 6, 8, 10, 0, 0), timeDate(2021, 6, 8, 11, 0, 0))
	stale := taskEvent(taskID, userID, timeDate(2021, 6, 8, 14, 0, 0), timeDate(2021, 6, 8, 15, 0, 0))
	wanted := taskEvent(taskID, userID, timeDate(2021, 6, 9, 10, 0, 0), timeDate(2021, 6, 9, 11, 0, 0))

	current := []calendar.Event{kept, stale}
	desired := []calendar.Event{kept, wanted}

	diff := ComputeEventDiff(desired, current)

	if len(diff.ToCreate) != 1 || !diff.ToCreate[0].Date.Equal(wanted.Date) {
		t.Errorf("ToCreate = %v, want exactly the new block", diff.ToCreate)
	}

	if len(diff.ToDelete) != 1 || diff.ToDelete[0].ID != stale.ID {
		t.Errorf("ToDelete = %v, want exactly the stale block", diff.ToDelete)
	}
}

func TestComputeEventDiff_SameScheduleIsEmpty(t *testing.T) {
	userID := primitive.NewObjectID()
	taskID := primitive.NewObjectID()

	a := taskEvent(taskID, userID, timeDate(2021, 6, 8, 10, 0, 0), timeDate(2021, 6, 8, 11, 0, 0))
	b := taskEvent(taskID, userID, timeDate(2021, 6, 8, 12, 0, 0), timeDate(2021, 6, 8, 13, 0, 0))

	diff := ComputeEventDiff([]calendar.Event{a, b}, []calendar.Event{b, a})

	if !diff.IsEmpty() {
		t.Errorf("diff of identical schedules is not empty: create %d, delete %d",
			len(diff.ToCreate), len(diff.ToDelete))
	}
}

func TestComputeEventDiff_IgnoresSubSecondPrecision(t *testing.T) {
	userID := primitive.NewObjectID()
	taskID := primitive.NewObjectID()

	stored := taskEvent(taskID, userID, timeDate(2021, 6, 8, 10, 0, 0), timeDate(2021, 6, 8, 11, 0, 0))

	desired := stored
	desired.Date.Start = desired.Date.Start.Add(500 * time.Millisecond)

	diff := ComputeEventDiff([]calendar.Event{desired}, []calendar.Event{stored})

	if !diff.IsEmpty() {
		t.Errorf("sub-second difference produced a diff: create %d, delete %d",
			len(diff.ToCreate), len(diff.ToDelete))
	}
}

func TestComputeEventDiff_LeavesCompletedAndPlainEventsAlone(t *testing.T) {
	userID := primitive.NewObjectID()
	taskID := primitive.NewObjectID()

	completed := taskEvent(taskID, userID, timeDate(2021, 6, 7, 10, 0, 0), timeDate(2021, 6, 7, 11, 0, 0))
	completed.CompletedAt = timeDate(2021, 6, 7, 11, 0, 0)

	plain := calendar.Event{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Title:  "dentist",
		Date:   date.Timespan{Start: timeDate(2021, 6, 8, 8, 0, 0), End: timeDate(2021, 6, 8, 9, 0, 0)},
	}

	// Neither appears in the desired schedule, yet neither may be deleted
	diff := ComputeEventDiff(nil, []calendar.Event{completed, plain})

	if !diff.IsEmpty() {
		t.Errorf("completed or plain events ended up in the diff: %v", diff.ToDelete)
	}
}
