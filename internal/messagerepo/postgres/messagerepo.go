package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/haguru/courier/internal/interfaces"
	"github.com/haguru/courier/internal/models"
	"github.com/haguru/courier/internal/storage/constants"

	"github.com/go-viper/mapstructure/v2"
)

// messagesTableDDL is idempotent. The seq column records insertion order so
// listing can return messages in the order they were accepted; ids are UUIDs
// and carry no ordering.
const messagesTableDDL = `CREATE TABLE IF NOT EXISTS messages (
	id UUID PRIMARY KEY,
	seq BIGSERIAL,
	sender TEXT NOT NULL,
	recipient TEXT NOT NULL DEFAULT '',
	group_id TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	timestamp BIGINT NOT NULL
)`

// PostgresMessageRepository implements MessageRepository for PostgreSQL databases.
type PostgresMessageRepository struct {
	dbClient interfaces.DBClient
}

// NewPostgresMessageRepository creates a new PostgreSQL repository instance.
func NewPostgresMessageRepository(dbClient interfaces.DBClient) (interfaces.MessageRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &PostgresMessageRepository{dbClient: dbClient}, nil
}

// AddMessage saves a new message to PostgreSQL and returns its ID.
func (r *PostgresMessageRepository) AddMessage(ctx context.Context, message models.Message) (string, error) {
	doc := map[string]interface{}{
		"sender":    message.Sender,
		"recipient": message.Recipient,
		"group_id":  message.GroupID,
		"content":   message.Content,
		"timestamp": message.Timestamp,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.MessagesCollection, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add message to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

// ListMessages returns every persisted message in insertion order.
func (r *PostgresMessageRepository) ListMessages(ctx context.Context) ([]models.Message, error) {
	docs, err := r.dbClient.FindMany(ctx, constants.MessagesCollection, map[string]interface{}{})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages from PostgreSQL: %w", err)
	}

	rows := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		rowMap, ok := doc.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected document type %T from PostgreSQL", doc)
		}
		rows = append(rows, rowMap)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return seqOf(rows[i]) < seqOf(rows[j])
	})

	messages := make([]models.Message, 0, len(rows))
	for _, rowMap := range rows {
		var message models.Message
		if err := mapstructure.Decode(rowMap, &message); err != nil {
			return nil, fmt.Errorf("failed to decode message row: %w", err)
		}
		messages = append(messages, message)
	}

	return messages, nil
}

// EnsureIndices creates the messages table.
func (r *PostgresMessageRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.MessagesCollection, messagesTableDDL)
}

// Close closes the PostgreSQL database connection.
func (r *PostgresMessageRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}

func seqOf(row map[string]interface{}) int64 {
	if seq, ok := row["seq"].(int64); ok {
		return seq
	}
	return 0
}
