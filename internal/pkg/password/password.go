package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
)

var (
	// ErrEmptyPassword is returned when an empty plaintext is hashed
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrCorruptHash is returned when a stored digest is structurally
	// invalid. Distinct from a mismatch so callers can tell wrong
	// password from data damage.
	ErrCorruptHash = errors.New("stored password hash is corrupt")
)

// Hash hashes a password using bcrypt. The digest embeds algorithm, cost
// and salt, so raising DefaultCost never invalidates stored digests.
func Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a stored digest in constant time.
// A mismatch returns (false, nil); a malformed digest returns ErrCorruptHash.
func Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, ErrCorruptHash
}
