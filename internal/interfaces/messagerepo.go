package interfaces

import (
	"context"

	"github.com/haguru/courier/internal/models"
)

// MessageRepository defines the contract for the append-only message store.
type MessageRepository interface {
	// AddMessage persists a new message and returns the store-assigned ID.
	AddMessage(ctx context.Context, message models.Message) (string, error)
	// ListMessages returns every persisted message in insertion order.
	ListMessages(ctx context.Context) ([]models.Message, error)
	EnsureIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
