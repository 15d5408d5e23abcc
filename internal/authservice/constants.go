package authservice

import "errors"

var (
	// ErrUsernameTaken is returned when registration targets an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned for both an unknown username and a
	// password mismatch so the response carries no enumeration signal.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const (
	// Error messages for auth service operations
	ErrFailedToHashPassword = "failed to hash password" // #nosec G101
	ErrFailedToAddUser      = "failed to add user"
	ErrRetrievingUser       = "error retrieving user"
	ErrFailedToIssueToken   = "failed to issue token"
)
