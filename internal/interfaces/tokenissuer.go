package interfaces

import "github.com/haguru/courier/internal/auth"

// TokenIssuer mints and verifies the signed claims tokens handed out at
// registration and login. The subject of an issued token is the username;
// the role claim groups the holder for authorization.
type TokenIssuer interface {
	Issue(username string) (string, error)
	Verify(tokenString string) (*auth.Claims, error)
}
