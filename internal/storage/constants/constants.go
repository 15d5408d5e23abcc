package constants

const (
	// UsersCollection is the collection/table holding registered accounts.
	UsersCollection = "users"
	// MessagesCollection is the append-only collection/table holding messages.
	MessagesCollection = "messages"
)
