package identity

import "context"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail finds a user by email (emails are unique)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a new user; email collisions surface as conflicts
	Create(ctx context.Context, user *User) error

	// Update persists changes to an existing user
	Update(ctx context.Context, user *User) error
}
