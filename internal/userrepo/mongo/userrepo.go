package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/courier/internal/interfaces"
	"github.com/haguru/courier/internal/models"
	"github.com/haguru/courier/internal/storage/constants"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	mongoClient "github.com/haguru/courier/pkg/databases/mongo"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	MAXLENGTH_USERNAME = 64 // Maximum length for username
)

// MongoUserRepository implements UserRepository over the generic DBClient.
type MongoUserRepository struct {
	dbClient interfaces.DBClient
}

// NewMongoUserRepository creates a new MongoDB repository instance.
func NewMongoUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if _, ok := dbClient.(*mongoClient.MongoDBClient); !ok {
		return nil, fmt.Errorf("dbClient must be a MongoDB client")
	}
	return &MongoUserRepository{dbClient: dbClient}, nil
}

// AddUser saves a new user to MongoDB. A username collision surfaces as an
// error wrapping interfaces.ErrDuplicateKey via the unique index.
func (r *MongoUserRepository) AddUser(ctx context.Context, user models.User) (string, error) {
	mongoUser := struct {
		ID             primitive.ObjectID `bson:"_id,omitempty"`
		Username       string             `bson:"username"`
		HashedPassword string             `bson:"hashed_password"`
	}{
		ID:             primitive.NewObjectID(),
		Username:       user.Username,
		HashedPassword: user.HashedPassword,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, mongoUser)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return "", fmt.Errorf("username %q already exists: %w", user.Username, interfaces.ErrDuplicateKey)
		}
		return "", fmt.Errorf("failed to add user to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

// GetUserByUsername retrieves a user from MongoDB, or (nil, nil) when absent.
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if len(username) == 0 || len(username) > MAXLENGTH_USERNAME {
		return nil, fmt.Errorf("invalid username: must be between 1 and %d characters", MAXLENGTH_USERNAME)
	}

	var mongoUser struct {
		ID             primitive.ObjectID `bson:"_id,omitempty"`
		Username       string             `bson:"username"`
		HashedPassword string             `bson:"hashed_password"`
	}

	filter := bson.M{"username": username}
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &mongoUser)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username from MongoDB: %w", err)
	}

	return &models.User{
		ID:             mongoUser.ID.Hex(),
		Username:       mongoUser.Username,
		HashedPassword: mongoUser.HashedPassword,
	}, nil
}

// EnsureIndices creates the unique username index. This constraint is the
// race guard for concurrent registrations.
func (r *MongoUserRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true),
	}
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, indexModel)
}

// Close disconnects the MongoDB client.
func (r *MongoUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
