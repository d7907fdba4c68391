package storage

import (
	"context"

	"github.com/atolz-bro/usermanagementservice/internal/models"
)

//go:generate moq -out userstorage_mock.go . UserStorage

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// FindByUsername retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	FindByID(ctx context.Context, id int64) (*models.User, error)

	// Save inserts the user when user.ID == 0 and assigns the new ID,
	// otherwise updates the existing record.
	// Returns ErrUserAlreadyExists if the username is taken by another user
	// and ErrUserNotFound when updating a missing record.
	Save(ctx context.Context, user *models.User) error

	// DeleteByID deletes user by ID
	// Returns ErrUserNotFound if user doesn't exist
	DeleteByID(ctx context.Context, id int64) error

	// ExistsByID reports whether a user with the given ID exists
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Count returns the number of stored users
	Count(ctx context.Context) (int64, error)

	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error

	// Close releases the underlying resources
	Close() error
}
