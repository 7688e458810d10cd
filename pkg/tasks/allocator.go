package tasks

import (
	"time"

	"github.com/timeblock-app/timeblock-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// now is the current time and is globally available to override it in tests
var now = time.Now

// DefaultBlockDuration is the size of a single scheduled block
const DefaultBlockDuration = time.Hour

// DefaultHorizonDays bounds how far into the future the allocator scans
const DefaultHorizonDays = 14

// InterTaskGap is the breathing room left after a task's last block before the
// next task in the batch may start
const InterTaskGap = time.Minute * 5

// AllocatorConfig holds the scheduling knobs; the zero value uses the defaults
type AllocatorConfig struct {
	BlockDuration time.Duration
	HorizonDays   int
	SkipWeekends  bool
}

func (c AllocatorConfig) blockDuration() time.Duration {
	if c.BlockDuration <= 0 {
		return DefaultBlockDuration
	}
	return c.BlockDuration
}

func (c AllocatorConfig) horizonDays() int {
	if c.HorizonDays <= 0 {
		return DefaultHorizonDays
	}
	return c.HorizonDays
}

// Block is one contiguous time interval the allocator produced for a task
type Block struct {
	TaskID primitive.ObjectID `json:"taskId"`
	Date   date.Timespan      `json:"date"`
}

// Allocation is the outcome of allocating one task. Violations are the placed
// blocks that start after the task's deadline; they are surfaced for warning,
// not rejected. Cursor is where the next task in the batch may start.
type Allocation struct {
	Blocks     []Block
	Violations []Block
	Cursor     time.Time
}

// Deadline returns the instant a task's work should be finished by: the due
// date inclusive through end of day, or the scan horizon for tasks without one
func (c AllocatorConfig) Deadline(task *Task, at time.Time) time.Time {
	if task.HasDueDate() {
		return date.EndOfDay(task.DueAt)
	}

	return date.EndOfDay(at.AddDate(0, 0, c.horizonDays()))
}

// Allocate places blocks for a single task. It is a pure function over its
// inputs apart from reading the clock: it walks forward from the later of now
// (rounded up to the next quarter hour) and the caller's cursor, in fixed
// steps of the block duration, inside the working hours of each day, and
// accepts every candidate that doesn't intersect an occupied interval. Placed
// blocks are added to busy so later tasks in the same run cannot collide.
func (c AllocatorConfig) Allocate(task *Task, remaining time.Duration, hours WorkingHours, busy *date.BusySet, cursor time.Time) Allocation {
	allocation := Allocation{Cursor: cursor}

	if remaining <= 0 {
		return allocation
	}

	blockDuration := c.blockDuration()
	required := int((remaining + blockDuration - 1) / blockDuration)

	current := date.RoundUpToQuarterHour(now())
	if cursor.After(current) {
		current = cursor
	}

	deadline := c.Deadline(task, now())

	// The scan never looks past the horizon, except to honor a deadline that
	// lies beyond it; a deadline in the past does not shrink the scan
	scanLimit := date.EndOfDay(now().AddDate(0, 0, c.horizonDays()))
	if deadline.After(scanLimit) {
		scanLimit = deadline
	}

	placed := 0
	for placed < required {
		if current.After(scanLimit) {
			break
		}

		if c.SkipWeekends && date.IsWeekend(current) {
			current = date.AtClock(current.AddDate(0, 0, 1), hours.StartHour, 0)
			continue
		}

		dayStart := date.AtClock(current, hours.StartHour, 0)
		if current.Before(dayStart) {
			current = dayStart
			continue
		}

		dayEnd := date.AtClock(current, hours.EndHour, 0)
		if current.Add(blockDuration).After(dayEnd) {
			current = date.AtClock(current.AddDate(0, 0, 1), hours.StartHour, 0)
			continue
		}

		candidate := date.Timespan{Start: current, End: current.Add(blockDuration)}

		if !busy.Intersects(candidate) {
			block := Block{TaskID: task.ID, Date: candidate}
			allocation.Blocks = append(allocation.Blocks, block)

			if candidate.Start.After(deadline) {
				allocation.Violations = append(allocation.Violations, block)
			}

			busy.Add(candidate)
			placed++
		}

		current = current.Add(blockDuration)
	}

	if len(allocation.Blocks) > 0 {
		last := allocation.Blocks[len(allocation.Blocks)-1]
		allocation.Cursor = last.Date.End.Add(InterTaskGap)
	}

	return allocation
}
