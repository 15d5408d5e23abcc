package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) *ECDSAIssuer {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	issuer, err := NewECDSAIssuer(key)
	require.NoError(t, err)
	return issuer
}

func TestNewECDSAIssuer_NilKey(t *testing.T) {
	_, err := NewECDSAIssuer(nil)
	assert.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, ROLEUSER, claims.Role)
	assert.Equal(t, ISSUER, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.WithinDuration(t, claims.IssuedAt.Time.Add(TokenValidity), claims.ExpiresAt.Time, time.Second)
}

func TestVerify_WrongKey(t *testing.T) {
	issuer := newTestIssuer(t)
	other := newTestIssuer(t)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	issuer := newTestIssuer(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "not a jwt", token: "not-a-token"},
		{name: "tampered token", token: tamperedToken(t, issuer)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			assert.Error(t, err)
		})
	}
}

func tamperedToken(t *testing.T, issuer *ECDSAIssuer) string {
	t.Helper()
	token, err := issuer.Issue("alice")
	require.NoError(t, err)
	// flip a character in the signature segment
	return token[:len(token)-2] + "xx"
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	issuer := newTestIssuer(t)

	first, err := issuer.Issue("alice")
	require.NoError(t, err)
	second, err := issuer.Issue("alice")
	require.NoError(t, err)

	firstClaims, err := issuer.Verify(first)
	require.NoError(t, err)
	secondClaims, err := issuer.Verify(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}
