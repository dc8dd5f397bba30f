package application

import (
	"errors"
	"strings"
)

// Semantic failures returned to the transport layer. None of these are
// transient; the core never retries them.
var (
	// ErrEmailTaken and ErrActivityExists report a uniqueness conflict.
	ErrEmailTaken     = errors.New("Email already exists")
	ErrActivityExists = errors.New("This activity already exists")

	// ErrInvalidCredentials deliberately covers both "no such user" and
	// "wrong password" so a caller cannot tell which check failed.
	ErrInvalidCredentials = errors.New("Invalid credentials.")

	// ErrEmptyCredentials is returned when email or password is blank after trimming.
	ErrEmptyCredentials = errors.New("Email and password cannot be empty.")

	ErrUserNotFound     = errors.New("User not found")
	ErrActivityNotFound = errors.New("Activity not found")
)

// ValidationError carries every violated rule of an input, collected before
// reporting; callers never see only the first violation.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// AsValidation unwraps a *ValidationError if err is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
