package auth

import (
	"context"

	"verdra-backend/internal/models"
	"verdra-backend/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// Service handles registration and credential checks. Sessions themselves
// live in the middleware; the settlement core only ever sees a user id.
type Service struct {
	Store *store.Store
}

// Register creates a user with a bcrypt-hashed password and the seed balance.
// Username uniqueness is enforced here, not in the store.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	existing, err := s.Store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.Store.CreateUser(ctx, username, string(hash))
}

// Login verifies the credentials and returns the user. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	user, err := s.Store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
