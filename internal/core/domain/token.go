package domain

import (
	"errors"
	"time"
)

var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("invalid token")

const (
	// LoginTokenTTL is the lifetime of tokens issued by register, login and
	// admin-login.
	LoginTokenTTL = 30 * 24 * time.Hour
	// UserTokenTTL is the shorter lifetime used by the entity-bound issuance
	// path (AuthService.TokenForUser).
	UserTokenTTL = 7 * 24 * time.Hour
)

// ValidationError reports rejected client input. It always maps to a 400
// response with its message rendered verbatim.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}
