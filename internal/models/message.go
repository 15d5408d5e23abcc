package models

// Message is an immutable chat record. Exactly one of Recipient/GroupID is set
// for direct and group messages; a broadcast sets neither. Sender is always the
// authenticated identity of the author, and Timestamp is the server clock in
// milliseconds since epoch at the moment of acceptance.
type Message struct {
	ID        string `bson:"-" mapstructure:"id" db:"id" json:"id,omitempty"`
	Sender    string `bson:"sender" mapstructure:"sender" db:"sender" json:"sender"`
	Recipient string `bson:"recipient,omitempty" mapstructure:"recipient" db:"recipient" json:"recipient,omitempty"`
	GroupID   string `bson:"group_id,omitempty" mapstructure:"group_id" db:"group_id" json:"groupId,omitempty"`
	Content   string `bson:"content" mapstructure:"content" db:"content" json:"content"`
	Timestamp int64  `bson:"timestamp" mapstructure:"timestamp" db:"timestamp" json:"timestamp"`
}

// IsBroadcast reports whether the message has no addressee.
func (m Message) IsBroadcast() bool {
	return m.Recipient == "" && m.GroupID == ""
}
