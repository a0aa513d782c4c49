package domain

import "errors"

// Common domain errors. Services wrap these with context where useful;
// handlers match with errors.Is and emit sanitized messages only.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotFound           = errors.New("resource not found")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrUpstream           = errors.New("upstream failure")
	ErrInternal           = errors.New("internal server error")
)

// Credential errors
var (
	// ErrPasswordNotSet means the principal exists but has no stored hash.
	// Distinct from a wrong password so operators can spot broken accounts.
	ErrPasswordNotSet = errors.New("password not set for account")
)

// OTP errors. Wrong-code vs expired vs exhausted are deliberately
// informative; none of them reveal whether the key maps to an account.
var (
	ErrOTPNotFound = errors.New("no active code, request a new one")
	ErrOTPInvalid  = errors.New("incorrect code")
	ErrOTPExpired  = errors.New("code expired, request a new one")
)
