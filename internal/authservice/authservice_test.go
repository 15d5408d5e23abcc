package authservice

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/haguru/courier/internal/interfaces"
	"github.com/haguru/courier/internal/interfaces/mocks"
	"github.com/haguru/courier/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(repo *mocks.UserRepository, tokens *mocks.TokenIssuer) *AuthService {
	return NewAuthService(repo, tokens, &mocks.Logger{})
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns token", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		tokens := &mocks.TokenIssuer{}

		repo.On("GetUserByUsername", mock.Anything, "alice").Return(nil, nil)
		repo.On("AddUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
			// the stored hash must verify against the plaintext and never equal it
			return user.Username == "alice" &&
				user.HashedPassword != "pw1" &&
				bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("pw1")) == nil
		})).Return("id-1", nil)
		tokens.On("Issue", "alice").Return("token-abc", nil)

		token, err := newService(repo, tokens).Register(ctx, "alice", "pw1")
		require.NoError(t, err)
		assert.Equal(t, "token-abc", token)
		repo.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("existing username fails with ErrUsernameTaken", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		tokens := &mocks.TokenIssuer{}

		repo.On("GetUserByUsername", mock.Anything, "alice").
			Return(&models.User{ID: "id-1", Username: "alice"}, nil)

		_, err := newService(repo, tokens).Register(ctx, "alice", "pw2")
		assert.ErrorIs(t, err, ErrUsernameTaken)
		repo.AssertNotCalled(t, "AddUser", mock.Anything, mock.Anything)
		tokens.AssertNotCalled(t, "Issue", mock.Anything)
	})

	t.Run("lost insert race fails with ErrUsernameTaken", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		tokens := &mocks.TokenIssuer{}

		repo.On("GetUserByUsername", mock.Anything, "alice").Return(nil, nil)
		repo.On("AddUser", mock.Anything, mock.Anything).
			Return("", fmt.Errorf("username %q already exists: %w", "alice", interfaces.ErrDuplicateKey))

		_, err := newService(repo, tokens).Register(ctx, "alice", "pw1")
		assert.ErrorIs(t, err, ErrUsernameTaken)
		tokens.AssertNotCalled(t, "Issue", mock.Anything)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		tokens := &mocks.TokenIssuer{}

		storeErr := errors.New("connection refused")
		repo.On("GetUserByUsername", mock.Anything, "alice").Return(nil, storeErr)

		_, err := newService(repo, tokens).Register(ctx, "alice", "pw1")
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("token issue failure propagates", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		tokens := &mocks.TokenIssuer{}

		repo.On("GetUserByUsername", mock.Anything, "alice").Return(nil, nil)
		repo.On("AddUser", mock.Anything, mock.Anything).Return("id-1", nil)
		tokens.On("Issue", "alice").Return("", errors.New("signing failed"))

		_, err := newService(repo, tokens).Register(ctx, "alice", "pw1")
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("correct password returns token", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		tokens := &mocks.TokenIssuer{}

		repo.On("GetUserByUsername", mock.Anything, "alice").
			Return(&models.User{ID: "id-1", Username: "alice", HashedPassword: hashOf(t, "pw1")}, nil)
		tokens.On("Issue", "alice").Return("token-abc", nil)

		token, err := newService(repo, tokens).Login(ctx, "alice", "pw1")
		require.NoError(t, err)
		assert.Equal(t, "token-abc", token)
	})

	t.Run("unknown user fails with ErrInvalidCredentials", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		tokens := &mocks.TokenIssuer{}

		repo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, nil)

		_, err := newService(repo, tokens).Login(ctx, "ghost", "pw1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		tokens.AssertNotCalled(t, "Issue", mock.Anything)
	})

	t.Run("wrong password fails with the same error as unknown user", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		tokens := &mocks.TokenIssuer{}

		repo.On("GetUserByUsername", mock.Anything, "alice").
			Return(&models.User{ID: "id-1", Username: "alice", HashedPassword: hashOf(t, "pw1")}, nil)

		_, err := newService(repo, tokens).Login(ctx, "alice", "pw2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		tokens.AssertNotCalled(t, "Issue", mock.Anything)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		repo := &mocks.UserRepository{}
		tokens := &mocks.TokenIssuer{}

		storeErr := errors.New("connection refused")
		repo.On("GetUserByUsername", mock.Anything, "alice").Return(nil, storeErr)

		_, err := newService(repo, tokens).Login(ctx, "alice", "pw1")
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

// Register alice twice, then log in with the wrong and the right password.
func TestRegisterLoginScenario(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	tokens := &mocks.TokenIssuer{}
	service := newService(repo, tokens)

	var stored *models.User
	repo.On("GetUserByUsername", mock.Anything, "alice").Return(func(context.Context, string) *models.User {
		return stored
	}, nil)
	repo.On("AddUser", mock.Anything, mock.Anything).Return(func(_ context.Context, user models.User) string {
		stored = &models.User{ID: "id-1", Username: user.Username, HashedPassword: user.HashedPassword}
		return stored.ID
	}, nil)
	tokens.On("Issue", "alice").Return("token-abc", nil)

	token, err := service.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)

	_, err = service.Register(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = service.Login(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err = service.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)
}

// Hash round-trip: verify(hash(p), p) holds and verify(hash(p), p') fails.
func TestPasswordHashRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
		attempt  string
		match    bool
	}{
		{name: "exact match", password: "pw1", attempt: "pw1", match: true},
		{name: "wrong password", password: "pw1", attempt: "pw2", match: false},
		{name: "empty attempt", password: "pw1", attempt: "", match: false},
		{name: "empty password matches empty", password: "", attempt: "", match: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := hashOf(t, tt.password)
			err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(tt.attempt))
			if tt.match {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
