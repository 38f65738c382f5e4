package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Register(t *testing.T) {
	q := setupQueries(t)
	svc := NewAuthService(q)
	svc.cost = bcrypt.MinCost
	ctx := context.Background()

	out := svc.Register(ctx, RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "password123"})
	require.True(t, out.Success, out.Error)
	require.NotNil(t, out.User)
	assert.Equal(t, "alice@example.com", out.User.Email)

	t.Run("DuplicateEmail", func(t *testing.T) {
		out := svc.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "password123"})
		assert.False(t, out.Success)
		assert.NotEmpty(t, out.Error)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		out := svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "password123"})
		assert.False(t, out.Success)
	})

	t.Run("Invalid", func(t *testing.T) {
		out := svc.Register(ctx, RegisterInput{Username: "x", Email: "bad", Password: "1"})
		assert.False(t, out.Success)
		assert.NotEmpty(t, out.Error)
	})
}

func TestAuthService_Login(t *testing.T) {
	q := setupQueries(t)
	svc := NewAuthService(q)
	ctx := context.Background()
	alice := mustUser(t, q, "alice")

	out := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password123"})
	require.True(t, out.Success, out.Error)
	assert.Equal(t, alice.ID, out.User.ID)

	out = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrongpassword"})
	assert.False(t, out.Success)

	out = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.False(t, out.Success)

	out = svc.Login(ctx, LoginInput{})
	assert.False(t, out.Success)
}
