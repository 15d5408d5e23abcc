// Package messagerouter classifies inbound send requests into their delivery
// mode, stamps server-side metadata, and delegates persistence to the message
// repository. "Sending" is solely durable recording; there is no fan-out.
package messagerouter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haguru/courier/internal/interfaces"
	"github.com/haguru/courier/internal/models"
	"github.com/haguru/courier/pkg/helper"
)

// ErrAmbiguousTarget is returned when a send names both a recipient and a
// group; a record with both set could not be classified by any reader.
var ErrAmbiguousTarget = errors.New("message cannot target both a recipient and a group")

const (
	ErrFailedToAddMessage   = "failed to add message"
	ErrFailedToListMessages = "failed to list messages"
)

// SendRequest is the payload of a send operation. The delivery mode is
// inferred from which optional field is populated: recipient set means
// direct, group set means group, neither means broadcast.
type SendRequest struct {
	Content   string
	Recipient string
	GroupID   string
}

type Router struct {
	MessageRepo interfaces.MessageRepository
	Logger      interfaces.Logger
	now         func() time.Time
}

// NewRouter creates a new Router instance.
func NewRouter(repo interfaces.MessageRepository, logger interfaces.Logger) *Router {
	return &Router{
		MessageRepo: repo,
		Logger:      logger,
		now:         time.Now,
	}
}

// Send builds a persistable message from the request and durably records it.
// The sender is always the authenticated caller identity, never a
// client-supplied field, and the timestamp is the server clock at acceptance.
func (r *Router) Send(ctx context.Context, sender string, req SendRequest) error {
	funcName := helper.GetFuncName()

	if req.Recipient != "" && req.GroupID != "" {
		r.Logger.Warn("Ambiguous send target", "func", funcName, "sender", sender)
		return ErrAmbiguousTarget
	}

	message := models.Message{
		Sender:    sender,
		Recipient: req.Recipient,
		GroupID:   req.GroupID,
		Content:   req.Content,
		Timestamp: r.now().UnixMilli(),
	}

	messageID, err := r.MessageRepo.AddMessage(ctx, message)
	if err != nil {
		r.Logger.Error(ErrFailedToAddMessage, "func", funcName, "sender", sender, "error", err)
		return fmt.Errorf("%s: %w", ErrFailedToAddMessage, err)
	}

	r.Logger.Info("Message persisted", "func", funcName, "sender", sender, "ID", messageID, "mode", mode(message))
	return nil
}

// List returns every persisted message in insertion order, unfiltered by
// caller identity, recipient, or group membership. This mirrors the source
// system's scope; any narrowing would be a deliberate behavior change.
func (r *Router) List(ctx context.Context) ([]models.Message, error) {
	funcName := helper.GetFuncName()

	messages, err := r.MessageRepo.ListMessages(ctx)
	if err != nil {
		r.Logger.Error(ErrFailedToListMessages, "func", funcName, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToListMessages, err)
	}

	return messages, nil
}

func mode(m models.Message) string {
	switch {
	case m.Recipient != "":
		return "direct"
	case m.GroupID != "":
		return "group"
	default:
		return "broadcast"
	}
}
