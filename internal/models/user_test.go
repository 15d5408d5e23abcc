package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user := NewUser("alice", "$2a$10$hash")

	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "$2a$10$hash", user.HashedPassword)
	assert.Empty(t, user.ID)
}
