package jwt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestStaffTokenRoundTrip(t *testing.T) {
	token, err := GenerateStaffToken("staff-uuid-1", "Alice Wong", "alice@carelink.health", "Doctor", testSecret, 8)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, KindStaff, claims.Kind)
	assert.Equal(t, "staff-uuid-1", claims.Subject)
	assert.Equal(t, "Alice Wong", claims.Name)
	assert.Equal(t, "alice@carelink.health", claims.Email)
	assert.Equal(t, "Doctor", claims.Role)
	assert.Empty(t, claims.MRN)
}

func TestPatientTokenRoundTrip(t *testing.T) {
	token, err := GeneratePatientToken("patient-uuid-1", "MRN-260042", "Bob Lee", "bob@example.com", testSecret, 24)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, KindPatient, claims.Kind)
	assert.Equal(t, "patient-uuid-1", claims.Subject)
	assert.Equal(t, "MRN-260042", claims.MRN)
	assert.Empty(t, claims.Role)
}

func TestValidateExpiredToken(t *testing.T) {
	token, err := GenerateStaffToken("staff-uuid-1", "Alice Wong", "alice@carelink.health", "Doctor", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTamperedToken(t *testing.T) {
	token, err := GeneratePatientToken("patient-uuid-1", "MRN-260042", "Bob Lee", "bob@example.com", testSecret, 24)
	require.NoError(t, err)

	// Flip one character in the signature segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = ValidateToken(tampered, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := GenerateStaffToken("staff-uuid-1", "Alice Wong", "alice@carelink.health", "Admin", testSecret, 8)
	require.NoError(t, err)

	_, err = ValidateToken(token, "a-different-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateGarbage(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a token", "hello world"},
		{"two segments", "aaaa.bbbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.token, testSecret)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}
