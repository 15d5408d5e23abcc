package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/haguru/courier/internal/interfaces"
)

type contextKey string

// identityKey holds the authenticated username extracted from a verified token.
const identityKey contextKey = "identity"

const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// Authenticate verifies the bearer token on each request and injects the token
// subject into the request context as the caller identity. Handlers behind it
// must take the sender identity from the context, never from the payload.
func Authenticate(tokens interfaces.TokenIssuer, logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(AuthorizationHeader)
			if !strings.HasPrefix(header, BearerPrefix) {
				unauthorized(w, "Missing or malformed bearer token")
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(header, BearerPrefix))
			if err != nil {
				logger.Debug("Token verification failed", "error", err)
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the authenticated username injected by
// Authenticate, and whether one is present.
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityKey).(string)
	return identity, ok && identity != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
