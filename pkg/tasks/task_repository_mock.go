package tasks

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockTaskRepository is a task repository for testing
type MockTaskRepository struct {
	Tasks []*Task

	FindAllCalls int
}

// Add adds a task
func (m *MockTaskRepository) Add(_ context.Context, task *Task) error {
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()
	task.LastModifiedAt = time.Now()

	if task.Status == "" {
		task.Status = StatusNotStarted
	}

	m.Tasks = append(m.Tasks, task)
	return nil
}

// Update updates a task
func (m *MockTaskRepository) Update(_ context.Context, task *Task) error {
	for i, existing := range m.Tasks {
		if existing.ID == task.ID && existing.UserID == task.UserID {
			task.LastModifiedAt = time.Now()
			m.Tasks[i] = task
			return nil
		}
	}

	return ErrTaskNotFound
}

// FindAll finds all tasks of a user
func (m *MockTaskRepository) FindAll(_ context.Context, userID string) ([]Task, error) {
	m.FindAllCalls++

	var tasks []Task

	for _, task := range m.Tasks {
		if task.UserID.Hex() == userID {
			tasks = append(tasks, *task)
		}
	}

	return tasks, nil
}

// FindByID finds a specific task
func (m *MockTaskRepository) FindByID(_ context.Context, taskID string, userID string) (*Task, error) {
	for _, task := range m.Tasks {
		if task.ID.Hex() == taskID && task.UserID.Hex() == userID {
			found := *task
			return &found, nil
		}
	}

	return nil, ErrTaskNotFound
}

// Delete removes a task
func (m *MockTaskRepository) Delete(_ context.Context, taskID string, userID string) error {
	for i, task := range m.Tasks {
		if task.ID.Hex() == taskID && task.UserID.Hex() == userID {
			m.Tasks = append(m.Tasks[:i], m.Tasks[i+1:]...)
			return nil
		}
	}

	return ErrTaskNotFound
}
