package tasks

import (
	"context"
	"time"
)

// MockScheduleRepository is a schedule repository for testing
type MockScheduleRepository struct {
	Schedules []*Schedule
	Bindings  []*ScheduleBinding

	TaskBindingCalls    int
	ProjectBindingCalls int
}

// FindByID finds a schedule by id
func (m *MockScheduleRepository) FindByID(_ context.Context, scheduleID string, userID string) (*Schedule, error) {
	for _, schedule := range m.Schedules {
		if schedule.ID.Hex() == scheduleID && schedule.UserID.Hex() == userID {
			return schedule, nil
		}
	}

	return nil, ErrScheduleNotFound
}

// FindDefaultForUser finds the user's default schedule
func (m *MockScheduleRepository) FindDefaultForUser(_ context.Context, userID string) (*Schedule, error) {
	for _, schedule := range m.Schedules {
		if schedule.UserID.Hex() == userID && schedule.IsDefault {
			return schedule, nil
		}
	}

	return nil, ErrScheduleNotFound
}

// FindTaskBinding finds the active binding for a task
func (m *MockScheduleRepository) FindTaskBinding(_ context.Context, taskID string, at time.Time) (*ScheduleBinding, error) {
	m.TaskBindingCalls++

	for _, binding := range m.Bindings {
		if binding.TaskID.Hex() == taskID && binding.ActiveAt(at) {
			return binding, nil
		}
	}

	return nil, ErrBindingNotFound
}

// FindProjectBinding finds the active binding for a project
func (m *MockScheduleRepository) FindProjectBinding(_ context.Context, projectID string, at time.Time) (*ScheduleBinding, error) {
	m.ProjectBindingCalls++

	for _, binding := range m.Bindings {
		if binding.ProjectID.Hex() == projectID && binding.ActiveAt(at) {
			return binding, nil
		}
	}

	return nil, ErrBindingNotFound
}
