package tasks

import (
	"context"

	"github.com/pkg/errors"
	"github.com/timeblock-app/timeblock-backend/pkg/users"
)

// ScheduleResolver finds the working hours that apply to a task by walking the
// override hierarchy: task binding, then project binding, then the user's
// designated or default schedule, then a hard-coded fallback.
type ScheduleResolver struct {
	userRepository     users.UserRepositoryInterface
	scheduleRepository ScheduleRepositoryInterface
}

// NewScheduleResolver constructs a ScheduleResolver
func NewScheduleResolver(userRepository users.UserRepositoryInterface, scheduleRepository ScheduleRepositoryInterface) *ScheduleResolver {
	return &ScheduleResolver{
		userRepository:     userRepository,
		scheduleRepository: scheduleRepository,
	}
}

// Resolve resolves the working hours for a task, first match wins
func (r *ScheduleResolver) Resolve(ctx context.Context, task *Task) (WorkingHours, error) {
	at := now()

	binding, err := r.scheduleRepository.FindTaskBinding(ctx, task.ID.Hex(), at)
	if err == nil {
		return r.workingHoursForBinding(ctx, task, binding)
	}
	if !errors.Is(err, ErrBindingNotFound) {
		return WorkingHours{}, err
	}

	// A task without a project skips this level entirely
	if task.HasProject() {
		binding, err = r.scheduleRepository.FindProjectBinding(ctx, task.ProjectID.Hex(), at)
		if err == nil {
			return r.workingHoursForBinding(ctx, task, binding)
		}
		if !errors.Is(err, ErrBindingNotFound) {
			return WorkingHours{}, err
		}
	}

	user, err := r.userRepository.FindByID(ctx, task.UserID.Hex())
	if err != nil {
		return WorkingHours{}, errors.Wrap(err, "could not load user for schedule resolution")
	}

	if !user.Settings.Scheduling.ActiveScheduleID.IsZero() {
		schedule, err := r.scheduleRepository.FindByID(ctx, user.Settings.Scheduling.ActiveScheduleID.Hex(), task.UserID.Hex())
		if err != nil {
			return WorkingHours{}, errors.Wrap(err, "designated schedule could not be loaded")
		}

		return schedule.WorkingHours(), nil
	}

	schedule, err := r.scheduleRepository.FindDefaultForUser(ctx, task.UserID.Hex())
	if err == nil {
		return schedule.WorkingHours(), nil
	}
	if !errors.Is(err, ErrScheduleNotFound) {
		return WorkingHours{}, err
	}

	return DefaultWorkingHours, nil
}

// ResolveByID resolves the working hours for a task by id; a missing task is a
// hard error because scheduling cannot proceed without it
func (r *ScheduleResolver) ResolveByID(ctx context.Context, taskID string, userID string, taskRepository TaskRepositoryInterface) (WorkingHours, error) {
	task, err := taskRepository.FindByID(ctx, taskID, userID)
	if err != nil {
		return WorkingHours{}, err
	}

	return r.Resolve(ctx, task)
}

func (r *ScheduleResolver) workingHoursForBinding(ctx context.Context, task *Task, binding *ScheduleBinding) (WorkingHours, error) {
	schedule, err := r.scheduleRepository.FindByID(ctx, binding.ScheduleID.Hex(), task.UserID.Hex())
	if err != nil {
		return WorkingHours{}, errors.Wrap(err, "bound schedule could not be loaded")
	}

	return schedule.WorkingHours(), nil
}
