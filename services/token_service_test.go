package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	userID := uuid.New()

	signed, err := tokens.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	got, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenService_Expired(t *testing.T) {
	tokens := NewTokenService("test-secret", -time.Minute)

	signed, err := tokens.Issue(uuid.New())
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	signed, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenService_Garbage(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	for _, bad := range []string{"", "not.a.jwt", "a.b"} {
		_, err := tokens.Verify(bad)
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
}
