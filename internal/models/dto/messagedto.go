package dto

// BroadcastRequestDTO is the payload for a broadcast send. Content is
// deliberately unconstrained, matching the permissiveness of the source system.
type BroadcastRequestDTO struct {
	Content string `json:"content"`
}

// DirectRequestDTO is the payload for a direct send to a single recipient.
type DirectRequestDTO struct {
	Content   string `json:"content"`
	Recipient string `json:"recipient" validate:"required,max=64"`
}

// GroupRequestDTO is the payload for a send to a named group channel.
type GroupRequestDTO struct {
	Content string `json:"content"`
	GroupID string `json:"groupId" validate:"required,max=64"`
}

// MessageDTO is the wire form of a persisted message returned by the list route.
type MessageDTO struct {
	ID        string `json:"id,omitempty"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient,omitempty"`
	GroupID   string `json:"groupId,omitempty"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type RateLimitResponse struct {
	Message string `json:"message"`
}
