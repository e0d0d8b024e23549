package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials is the single opaque authentication failure.
	// Callers never learn whether the code stage or the password stage failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrAccessCodeNotFound = errors.New("access code not found")
	ErrAccessCodeExists   = errors.New("access code already exists")
	ErrVideoNotFound      = errors.New("video not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrSelfModification   = errors.New("cannot modify own account through this path")
	ErrHashing            = errors.New("credential hashing failed")
	ErrRateLimited        = errors.New("too many login attempts")
)

// PasswordPolicyError reports every rule a candidate password violated, so a
// caller can surface all problems at once.
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return fmt.Sprintf("password rejected: %s", strings.Join(e.Violations, "; "))
}

// Is makes errors.Is(err, ErrInvalidPassword) match any policy error.
func (e *PasswordPolicyError) Is(target error) bool {
	return target == ErrInvalidPassword
}

// ErrInvalidPassword is the sentinel for policy violations; the concrete
// *PasswordPolicyError carries the individual rule messages.
var ErrInvalidPassword = errors.New("password does not meet policy")
