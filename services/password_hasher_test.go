package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2idHasher_RoundTrip(t *testing.T) {
	hasher := NewArgon2idHasher()

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := hasher.Verify("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2idHasher_UniqueSalts(t *testing.T) {
	hasher := NewArgon2idHasher()

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestArgon2idHasher_MalformedHash(t *testing.T) {
	hasher := NewArgon2idHasher()

	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "not phc", hash: "plaintext"},
		{name: "wrong algorithm", hash: "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{name: "truncated", hash: "$argon2id$v=19$m=65536"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hasher.Verify("anything", tt.hash)
			assert.Error(t, err)
		})
	}
}
