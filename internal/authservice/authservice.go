// Package authservice implements the authentication workflow: credential
// creation, hashing, verification, and token issuance. It holds no state of
// its own; all shared state lives in the user repository.
package authservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/courier/internal/interfaces"
	"github.com/haguru/courier/internal/models"
	"github.com/haguru/courier/pkg/helper"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UserRepo interfaces.UserRepository
	Tokens   interfaces.TokenIssuer
	Logger   interfaces.Logger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(repo interfaces.UserRepository, tokens interfaces.TokenIssuer, logger interfaces.Logger) *AuthService {
	return &AuthService{
		UserRepo: repo,
		Tokens:   tokens,
		Logger:   logger,
	}
}

// Register hashes the password, persists a new user, and returns a signed
// token bound to the username. Returns ErrUsernameTaken if the username
// already exists; the repository's unique constraint is the race guard, so a
// concurrent duplicate registration fails even after the lookup passes.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	funcName := helper.GetFuncName()
	s.Logger.Info("Registering user", "func", funcName, "user", username)

	existing, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	if existing != nil {
		s.Logger.Warn("Username already taken", "func", funcName, "user", username)
		return "", ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.Logger.Error(ErrFailedToHashPassword, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToHashPassword, err)
	}

	user := models.User{
		Username:       username,
		HashedPassword: string(hashedPassword),
	}

	userID, err := s.UserRepo.AddUser(ctx, user)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			// lost the race against a concurrent registration
			s.Logger.Warn("Username already taken", "func", funcName, "user", username)
			return "", ErrUsernameTaken
		}
		s.Logger.Error(ErrFailedToAddUser, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToAddUser, err)
	}
	s.Logger.Info("User registered successfully", "func", funcName, "user", username, "ID", userID)

	token, err := s.Tokens.Issue(username)
	if err != nil {
		s.Logger.Error(ErrFailedToIssueToken, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToIssueToken, err)
	}

	return token, nil
}

// Login verifies the credentials and returns a signed token. An unknown
// username and a wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", username)

	user, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	if user == nil {
		s.Logger.Debug("User not found", "func", funcName, "user", username)
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		s.Logger.Debug("Password mismatch", "func", funcName, "user", username)
		return "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(username)
	if err != nil {
		s.Logger.Error(ErrFailedToIssueToken, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToIssueToken, err)
	}

	s.Logger.Info("User authenticated successfully", "func", funcName, "user", username)
	return token, nil
}
