package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/timeblock-app/timeblock-backend/pkg/locking"
	"github.com/timeblock-app/timeblock-backend/pkg/tasks/calendar"
)

// SetEventCompletion marks a scheduled work block as completed or reopens it
// and keeps the task's logged work in sync. Completing adds the block's
// duration to the task's actual work, capped at the planned total; reopening
// subtracts it again, floored at zero.
func (s *PlanningService) SetEventCompletion(ctx context.Context, userID string, eventID string, completed bool) (*calendar.Event, error) {
	event, err := s.eventRepository.FindByID(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	if !event.IsTaskEvent() {
		return nil, errors.New("event is not linked to a task")
	}

	if event.IsCompleted() == completed {
		return event, nil
	}

	lock, err := s.locker.Acquire(ctx, fmt.Sprintf("task-%s", event.LinkedTaskID.Hex()), time.Second*30, false)
	if err != nil {
		return nil, errors.Wrap(err, "could not acquire task lock")
	}

	defer func(lock locking.LockInterface) {
		err := lock.Release(ctx)
		if err != nil {
			s.logger.Warning("could not release task lock", err)
		}
	}(lock)

	task, err := s.taskRepository.FindByID(ctx, event.LinkedTaskID.Hex(), userID)
	if err != nil {
		return nil, err
	}

	previousCompletedAt := event.CompletedAt
	blockDuration := event.Date.Duration()

	if completed {
		event.CompletedAt = now()

		task.ActualDuration += blockDuration
		if task.ActualDuration > task.PlannedDuration {
			task.ActualDuration = task.PlannedDuration
		}
	} else {
		event.CompletedAt = time.Time{}

		task.ActualDuration -= blockDuration
		if task.ActualDuration < 0 {
			task.ActualDuration = 0
		}
	}

	err = s.eventRepository.Update(ctx, event)
	if err != nil {
		return nil, errors.Wrap(err, "could not update event")
	}

	err = s.taskRepository.Update(ctx, task)
	if err != nil {
		event.CompletedAt = previousCompletedAt
		revertErr := s.eventRepository.Update(ctx, event)
		if revertErr != nil {
			s.logger.Error("could not revert event after failed task update", revertErr)
		}

		return nil, errors.Wrap(err, "could not update task")
	}

	s.InvalidateSnapshot(ctx, userID)

	return event, nil
}
