package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finquest/finquest/database/models"
)

func newAuthService(users *fakeUserRepo) *AuthService {
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAuthService(users, NewArgon2idHasher(), tokens, "client-id")
}

func TestAuthService_Register(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	user, err := svc.Register(context.Background(), "Alice@Example.com", "alice", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
}

func TestAuthService_Register_Conflict(t *testing.T) {
	users := newFakeUserRepo()
	users.add(&models.User{Username: "alice", Email: "alice@example.com"})
	svc := newAuthService(users)

	_, err := svc.Register(context.Background(), "alice@example.com", "alice2", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_Login(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	registered, err := svc.Register(context.Background(), "bob@example.com", "bob", "hunter2hunter2")
	require.NoError(t, err)

	tests := []struct {
		name       string
		identifier string
	}{
		{name: "by username", identifier: "bob"},
		{name: "by email", identifier: "bob@example.com"},
		{name: "by email any case", identifier: "Bob@Example.COM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, user, err := svc.Login(context.Background(), tt.identifier, "hunter2hunter2")
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, registered.ID, user.ID)
		})
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	_, err := svc.Register(context.Background(), "carol@example.com", "carol", "hunter2hunter2")
	require.NoError(t, err)

	tests := []struct {
		name       string
		identifier string
		password   string
	}{
		{name: "unknown user", identifier: "nobody", password: "hunter2hunter2"},
		{name: "wrong password", identifier: "carol", password: "wrong-password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tt.identifier, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthService_ResolveFederated_CreatesOnFirstLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	user, err := svc.ResolveFederated(context.Background(), "Dana@Example.com", "Dana Smith")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, "dana.smith", user.Username)
	assert.NotEmpty(t, user.PasswordHash)

	// Placeholder credential can never be used for password login.
	_, _, err = svc.Login(context.Background(), "dana.smith", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ResolveFederated_ReturnsExisting(t *testing.T) {
	users := newFakeUserRepo()
	existing := users.add(&models.User{Username: "erin", Email: "erin@example.com"})
	svc := newAuthService(users)

	user, err := svc.ResolveFederated(context.Background(), "erin@example.com", "Erin Jones")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, "erin", user.Username)
}

func TestAuthService_ResolveFederated_UsernameCollision(t *testing.T) {
	users := newFakeUserRepo()
	users.add(&models.User{Username: "frank.miller", Email: "other@example.com"})
	svc := newAuthService(users)

	user, err := svc.ResolveFederated(context.Background(), "frank@example.com", "Frank Miller")
	require.NoError(t, err)
	assert.Equal(t, "frank.miller2", user.Username)
}

func TestUsernameFromDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    string
	}{
		{name: "spaces become dots", display: "Jane Doe", want: "jane.doe"},
		{name: "strips symbols", display: "J@ne D=oe!", want: "jne.doe"},
		{name: "keeps allowed punctuation", display: "a_b-c.d", want: "a_b-c.d"},
		{name: "empty falls back", display: "!!!", want: "user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usernameFromDisplayName(tt.display))
		})
	}
}
