package models

// User represents a registered account. The plaintext password is never
// stored; only the bcrypt hash is persisted.
type User struct {
	ID             string `bson:"-" mapstructure:"id" db:"id"`
	Username       string `bson:"username" mapstructure:"username" db:"username"`
	HashedPassword string `bson:"hashed_password" mapstructure:"hashed_password" db:"hashed_password"`
}

// NewUser creates a new User instance with the given username and password hash.
// Note: No validation is performed here.
func NewUser(username string, hashedPassword string) *User {
	return &User{
		Username:       username,
		HashedPassword: hashedPassword,
	}
}
