package auth

import (
	"context"
	"testing"

	"verdra-backend/internal/database"
	"verdra-backend/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthService(t *testing.T) *Service {
	db, err := database.Open("")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	s, err := store.New(db)
	require.NoError(t, err)
	return &Service{Store: s}
}

func TestRegister_HashesPasswordAndSeedsBalance(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter2")))
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(1000)))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "hunter2")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "hunter2")
	assert.ErrorIs(t, err, ErrCredentialsRequired)
	_, err = svc.Register(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrCredentialsRequired)
}

func TestLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice", "hunter2")
	require.NoError(t, err)

	user, err := svc.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
