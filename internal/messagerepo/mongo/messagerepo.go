package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/courier/internal/interfaces"
	"github.com/haguru/courier/internal/models"
	"github.com/haguru/courier/internal/storage/constants"

	"github.com/go-viper/mapstructure/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	mongoClient "github.com/haguru/courier/pkg/databases/mongo"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
)

// MongoMessageRepository implements MessageRepository over the generic DBClient.
// Messages are append-only; nothing here updates or deletes.
type MongoMessageRepository struct {
	dbClient interfaces.DBClient
}

// NewMongoMessageRepository creates a new MongoDB repository instance.
func NewMongoMessageRepository(dbClient interfaces.DBClient) (interfaces.MessageRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if _, ok := dbClient.(*mongoClient.MongoDBClient); !ok {
		return nil, fmt.Errorf("dbClient must be a MongoDB client")
	}
	return &MongoMessageRepository{dbClient: dbClient}, nil
}

// AddMessage saves a new message to MongoDB and returns its ID.
func (r *MongoMessageRepository) AddMessage(ctx context.Context, message models.Message) (string, error) {
	mongoMessage := struct {
		ID        primitive.ObjectID `bson:"_id,omitempty"`
		Sender    string             `bson:"sender"`
		Recipient string             `bson:"recipient,omitempty"`
		GroupID   string             `bson:"group_id,omitempty"`
		Content   string             `bson:"content"`
		Timestamp int64              `bson:"timestamp"`
	}{
		ID:        primitive.NewObjectID(),
		Sender:    message.Sender,
		Recipient: message.Recipient,
		GroupID:   message.GroupID,
		Content:   message.Content,
		Timestamp: message.Timestamp,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.MessagesCollection, mongoMessage)
	if err != nil {
		return "", fmt.Errorf("failed to add message to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

// ListMessages returns every persisted message in natural (insertion) order.
func (r *MongoMessageRepository) ListMessages(ctx context.Context) ([]models.Message, error) {
	docs, err := r.dbClient.FindMany(ctx, constants.MessagesCollection, bson.M{})
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list messages from MongoDB: %w", err)
	}

	messages := make([]models.Message, 0, len(docs))
	for _, doc := range docs {
		docMap, ok := doc.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected document type %T from MongoDB", doc)
		}

		var message models.Message
		if objID, ok := docMap["_id"].(primitive.ObjectID); ok {
			message.ID = objID.Hex()
		}
		delete(docMap, "_id")

		if err := mapstructure.Decode(docMap, &message); err != nil {
			return nil, fmt.Errorf("failed to decode message document: %w", err)
		}
		messages = append(messages, message)
	}

	return messages, nil
}

// EnsureIndices creates a timestamp index to keep retrieval cheap as the
// collection grows.
func (r *MongoMessageRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys: bson.M{"timestamp": 1},
	}
	return r.dbClient.EnsureSchema(ctx, constants.MessagesCollection, indexModel)
}

// Close disconnects the MongoDB client.
func (r *MongoMessageRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
