package auth

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ISSUER   = "courier"
	ROLEUSER = "user"

	// TokenValidity is fixed; the source system exposes no expiry configuration.
	TokenValidity = 15 * time.Minute
)

// Claims carries the registered claims plus the role grouping used by the
// authorization middleware. Subject is the username the token was issued to.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ECDSAIssuer signs and verifies tokens with a single ES256 key pair.
type ECDSAIssuer struct {
	privateKey *ecdsa.PrivateKey
}

// NewECDSAIssuer creates a token issuer backed by the given private key.
func NewECDSAIssuer(privateKey *ecdsa.PrivateKey) (*ECDSAIssuer, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key cannot be nil")
	}
	return &ECDSAIssuer{privateKey: privateKey}, nil
}

// Issue mints a signed token bound to the given username with the "user" role.
func (i *ECDSAIssuer) Issue(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: ROLEUSER,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenValidity)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    ISSUER,
			Subject:   username,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signedToken, err := token.SignedString(i.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify parses and validates a token string and returns its claims.
func (i *ECDSAIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &i.privateKey.PublicKey, nil
	}, jwt.WithIssuer(ISSUER))
	if err != nil {
		return nil, fmt.Errorf("token parsing error: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token or claims")
}
