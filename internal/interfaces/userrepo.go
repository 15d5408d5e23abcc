package interfaces

import (
	"context"

	"github.com/haguru/courier/internal/models"
)

// UserRepository defines the contract for storing and retrieving user credentials.
// Implementations must enforce username uniqueness at the store layer so that
// concurrent registrations cannot both succeed.
type UserRepository interface {
	// AddUser persists a new user and returns the store-assigned ID.
	// A username collision is reported as an error wrapping ErrDuplicateKey.
	AddUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername returns the user with the given username, or (nil, nil)
	// when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	EnsureIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
