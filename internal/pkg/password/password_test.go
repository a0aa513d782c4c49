package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	ok, err := Verify("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWrongPassword(t *testing.T) {
	hash, err := Hash("the-right-password")
	require.NoError(t, err)

	ok, err := Verify("the-wrong-password", hash)
	require.NoError(t, err, "a mismatch is not an error")
	assert.False(t, ok)
}

func TestHashEmptyPassword(t *testing.T) {
	_, err := Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same-password")
	require.NoError(t, err)
	second, err := Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each digest must carry its own salt")

	for _, h := range []string{first, second} {
		ok, err := Verify("same-password", h)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestVerifyCorruptHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty digest", ""},
		{"not a bcrypt digest", "plaintext-left-over-from-a-bad-migration"},
		{"truncated digest", "$2a$12$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := Verify("whatever", tt.hash)
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrCorruptHash)
		})
	}
}
