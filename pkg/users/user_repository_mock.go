package users

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserRepository is a user repository for testing
type MockUserRepository struct {
	Users []*User
}

// Add adds a user
func (m *MockUserRepository) Add(_ context.Context, user *User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.LastModifiedAt = time.Now()

	m.Users = append(m.Users, user)
	return nil
}

// FindByID finds a user by id
func (m *MockUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	for _, user := range m.Users {
		if user.ID.Hex() == id {
			return user, nil
		}
	}

	return nil, ErrNotFound
}

// Update updates a user
func (m *MockUserRepository) Update(_ context.Context, user *User) error {
	for i, existing := range m.Users {
		if existing.ID == user.ID {
			m.Users[i] = user
			return nil
		}
	}

	return ErrNotFound
}
