package tasks

import (
	"testing"
	"time"

	"github.com/timeblock-app/timeblock-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func timeDate(year int, month time.Month, day int, hour int, min int, seconds int) time.Time {
	loc, _ := time.LoadLocation("Local")
	return time.Date(year, month, day, hour, min, seconds, 0, loc)
}

// overrideNow pins the clock to a fixed instant for the duration of a test
func overrideNow(t *testing.T, fixed time.Time) {
	previous := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = previous })
}

func TestAllocatorConfig_Allocate(t *testing.T) {
	// Tuesday morning
	overrideNow(t, timeDate(2021, 6, 8, 10, 0, 0))

	hours := WorkingHours{StartHour: 9, EndHour: 17}
	task := &Task{
		ID:              primitive.NewObjectID(),
		Name:            "Write report",
		PlannedDuration: 2 * time.Hour,
		DueAt:           timeDate(2021, 6, 13, 0, 0, 0),
	}

	config := AllocatorConfig{}
	busy := date.NewBusySet()

	allocation := config.Allocate(task, task.RemainingPlannedWork(), hours, busy, time.Time{})

	if len(allocation.Blocks) != 2 {
		t.Fatalf("Allocate() placed %d blocks, want 2", len(allocation.Blocks))
	}

	if len(allocation.Violations) != 0 {
		t.Errorf("Allocate() reported %d violations, want 0", len(allocation.Violations))
	}

	for _, block := range allocation.Blocks {
		dayStart := date.AtClock(block.Date.Start, hours.StartHour, 0)
		dayEnd := date.AtClock(block.Date.Start, hours.EndHour, 0)
		window := date.Timespan{Start: dayStart, End: dayEnd}

		if !window.Contains(block.Date) {
			t.Errorf("block %s lies outside working hours %s", block.Date.String(), window.String())
		}

		if block.TaskID != task.ID {
			t.Errorf("block linked to %s, want %s", block.TaskID.Hex(), task.ID.Hex())
		}
	}

	// Consecutive blocks must not overlap
	for i := 1; i < len(allocation.Blocks); i++ {
		if allocation.Blocks[i].Date.IntersectsWith(allocation.Blocks[i-1].Date) {
			t.Errorf("blocks %s and %s overlap",
				allocation.Blocks[i-1].Date.String(), allocation.Blocks[i].Date.String())
		}
	}

	if allocation.Cursor.IsZero() {
		t.Errorf("Allocate() left the cursor unset after placing blocks")
	}
}

func TestAllocatorConfig_AllocatePastDeadline(t *testing.T) {
	overrideNow(t, timeDate(2021, 6, 8, 10, 0, 0))

	hours := WorkingHours{StartHour: 9, EndHour: 17}
	task := &Task{
		ID:              primitive.NewObjectID(),
		Name:            "Overdue work",
		PlannedDuration: 2 * time.Hour,
		// Due yesterday; the work still has to be placed
		DueAt: timeDate(2021, 6, 7, 0, 0, 0),
	}

	allocation := AllocatorConfig{}.Allocate(task, task.RemainingPlannedWork(), hours, date.NewBusySet(), time.Time{})

	if len(allocation.Blocks) != 2 {
		t.Fatalf("Allocate() placed %d blocks, want 2", len(allocation.Blocks))
	}

	if len(allocation.Violations) != 2 {
		t.Errorf("Allocate() reported %d violations, want 2", len(allocation.Violations))
	}
}

func TestAllocatorConfig_AllocateAroundBusy(t *testing.T) {
	overrideNow(t, timeDate(2021, 6, 8, 10, 0, 0))

	hours := WorkingHours{StartHour: 9, EndHour: 17}
	task := &Task{
		ID:              primitive.NewObjectID(),
		Name:            "Around a meeting",
		PlannedDuration: time.Hour,
		DueAt:           timeDate(2021, 6, 10, 0, 0, 0),
	}

	busy := date.NewBusySet(date.Timespan{
		Start: timeDate(2021, 6, 8, 10, 0, 0),
		End:   timeDate(2021, 6, 8, 11, 0, 0),
	})

	allocation := AllocatorConfig{}.Allocate(task, task.RemainingPlannedWork(), hours, busy, time.Time{})

	if len(allocation.Blocks) != 1 {
		t.Fatalf("Allocate() placed %d blocks, want 1", len(allocation.Blocks))
	}

	block := allocation.Blocks[0]
	if !block.Date.Start.Equal(timeDate(2021, 6, 8, 11, 0, 0)) {
		t.Errorf("block starts at %v, want 11:00 after the occupied hour", block.Date.Start)
	}
}

func TestAllocatorConfig_AllocateSpillsToNextDay(t *testing.T) {
	// Late afternoon, only half an hour of the working day left
	overrideNow(t, timeDate(2021, 6, 8, 16, 30, 0))

	hours := WorkingHours{StartHour: 9, EndHour: 17}
	task := &Task{
		ID:              primitive.NewObjectID(),
		Name:            "Evening overflow",
		PlannedDuration: time.Hour,
		DueAt:           timeDate(2021, 6, 10, 0, 0, 0),
	}

	allocation := AllocatorConfig{}.Allocate(task, task.RemainingPlannedWork(), hours, date.NewBusySet(), time.Time{})

	if len(allocation.Blocks) != 1 {
		t.Fatalf("Allocate() placed %d blocks, want 1", len(allocation.Blocks))
	}

	block := allocation.Blocks[0]
	if !block.Date.Start.Equal(timeDate(2021, 6, 9, 9, 0, 0)) {
		t.Errorf("block starts at %v, want next morning 9:00", block.Date.Start)
	}
}

func TestAllocatorConfig_AllocateSkipsWeekends(t *testing.T) {
	// Saturday morning
	overrideNow(t, timeDate(2021, 6, 12, 10, 0, 0))

	hours := WorkingHours{StartHour: 9, EndHour: 17}
	task := &Task{
		ID:              primitive.NewObjectID(),
		Name:            "Weekday only",
		PlannedDuration: time.Hour,
		DueAt:           timeDate(2021, 6, 16, 0, 0, 0),
	}

	allocation := AllocatorConfig{SkipWeekends: true}.Allocate(task, task.RemainingPlannedWork(), hours, date.NewBusySet(), time.Time{})

	if len(allocation.Blocks) != 1 {
		t.Fatalf("Allocate() placed %d blocks, want 1", len(allocation.Blocks))
	}

	block := allocation.Blocks[0]
	if !block.Date.Start.Equal(timeDate(2021, 6, 14, 9, 0, 0)) {
		t.Errorf("block starts at %v, want Monday 9:00", block.Date.Start)
	}
}

func TestAllocatorConfig_AllocateRespectsCursor(t *testing.T) {
	overrideNow(t, timeDate(2021, 6, 8, 10, 0, 0))

	hours := WorkingHours{StartHour: 9, EndHour: 17}
	task := &Task{
		ID:              primitive.NewObjectID(),
		Name:            "Second in batch",
		PlannedDuration: time.Hour,
		DueAt:           timeDate(2021, 6, 10, 0, 0, 0),
	}

	cursor := timeDate(2021, 6, 8, 13, 0, 0)
	allocation := AllocatorConfig{}.Allocate(task, task.RemainingPlannedWork(), hours, date.NewBusySet(), cursor)

	if len(allocation.Blocks) != 1 {
		t.Fatalf("Allocate() placed %d blocks, want 1", len(allocation.Blocks))
	}

	if allocation.Blocks[0].Date.Start.Before(cursor) {
		t.Errorf("block starts at %v, before the cursor %v", allocation.Blocks[0].Date.Start, cursor)
	}

	wantCursor := allocation.Blocks[0].Date.End.Add(InterTaskGap)
	if !allocation.Cursor.Equal(wantCursor) {
		t.Errorf("cursor = %v, want %v", allocation.Cursor, wantCursor)
	}
}

func TestAllocatorConfig_AllocateNothingRemaining(t *testing.T) {
	overrideNow(t, timeDate(2021, 6, 8, 10, 0, 0))

	task := &Task{
		ID:              primitive.NewObjectID(),
		Name:            "Already done",
		PlannedDuration: time.Hour,
		ActualDuration:  time.Hour,
	}

	allocation := AllocatorConfig{}.Allocate(task, task.RemainingPlannedWork(), DefaultWorkingHours, date.NewBusySet(), time.Time{})

	if len(allocation.Blocks) != 0 {
		t.Errorf("Allocate() placed %d blocks for a finished task, want 0", len(allocation.Blocks))
	}
}

func TestAllocatorConfig_Deadline(t *testing.T) {
	at := timeDate(2021, 6, 8, 10, 0, 0)
	config := AllocatorConfig{HorizonDays: 7}

	withDue := &Task{DueAt: timeDate(2021, 6, 10, 0, 0, 0)}
	deadline := config.Deadline(withDue, at)
	if deadline.Day() != 10 || deadline.Hour() != 23 {
		t.Errorf("Deadline() = %v, want end of the due day", deadline)
	}

	withoutDue := &Task{}
	deadline = config.Deadline(withoutDue, at)
	if deadline.Day() != 15 {
		t.Errorf("Deadline() = %v, want end of the horizon day", deadline)
	}
}
