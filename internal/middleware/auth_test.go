package middleware

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haguru/courier/internal/auth"
	"github.com/haguru/courier/internal/interfaces/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(t *testing.T) *auth.ECDSAIssuer {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	issuer, err := auth.NewECDSAIssuer(key)
	require.NoError(t, err)
	return issuer
}

func TestAuthenticate(t *testing.T) {
	issuer := newIssuer(t)
	otherIssuer := newIssuer(t)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)
	foreignToken, err := otherIssuer.Issue("alice")
	require.NoError(t, err)

	var seenIdentity string
	var identityPresent bool
	handler := Authenticate(issuer, &mocks.Logger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenIdentity, identityPresent = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectIdentity string
	}{
		{
			name:           "valid token passes through with identity",
			header:         BearerPrefix + token,
			expectedStatus: http.StatusOK,
			expectIdentity: "alice",
		},
		{
			name:           "missing header is rejected",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing bearer prefix is rejected",
			header:         token,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token is rejected",
			header:         BearerPrefix + "not-a-token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "token signed with another key is rejected",
			header:         BearerPrefix + foreignToken,
			expectedStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenIdentity, identityPresent = "", false

			req := httptest.NewRequest(http.MethodPost, "/broadcast", nil)
			if tt.header != "" {
				req.Header.Set(AuthorizationHeader, tt.header)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, req)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			if tt.expectIdentity != "" {
				assert.True(t, identityPresent)
				assert.Equal(t, tt.expectIdentity, seenIdentity)
			} else {
				assert.False(t, identityPresent)
				assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
			}
		})
	}
}

func TestIdentityFromContext(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		_, ok := IdentityFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("present", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), identityKey, "alice")
		identity, ok := IdentityFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "alice", identity)
	})
}
