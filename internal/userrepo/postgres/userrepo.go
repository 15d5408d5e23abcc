package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/courier/internal/interfaces"
	"github.com/haguru/courier/internal/models"
	"github.com/haguru/courier/internal/storage/constants"
)

// usersTableDDL is idempotent; the UNIQUE constraint on username is the race
// guard for concurrent registrations.
const usersTableDDL = `CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL
)`

// PostgresUserRepository implements UserRepository for PostgreSQL databases.
type PostgresUserRepository struct {
	dbClient interfaces.DBClient
}

// NewPostgresUserRepository creates a new PostgreSQL repository instance.
func NewPostgresUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &PostgresUserRepository{dbClient: dbClient}, nil
}

// AddUser saves a new user to PostgreSQL. A username collision surfaces as an
// error wrapping interfaces.ErrDuplicateKey via the unique constraint.
func (r *PostgresUserRepository) AddUser(ctx context.Context, user models.User) (string, error) {
	doc := map[string]interface{}{
		"username":        user.Username,
		"hashed_password": user.HashedPassword,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return "", fmt.Errorf("username %q already exists: %w", user.Username, interfaces.ErrDuplicateKey)
		}
		return "", fmt.Errorf("failed to add user to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

// GetUserByUsername retrieves a user from PostgreSQL, or (nil, nil) when absent.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	filter := map[string]interface{}{"username": username}
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &user)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username from PostgreSQL: %w", err)
	}
	return &user, nil
}

// EnsureIndices creates the users table with its unique username constraint.
func (r *PostgresUserRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, usersTableDDL)
}

// Close closes the PostgreSQL database connection.
func (r *PostgresUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
