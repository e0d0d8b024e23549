package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vidvault/video-vault/internal/core/domain"
)

const bcryptCost = 12

// Hash validates pw against the policy and returns its bcrypt hash.
// Policy violations come back as *domain.PasswordPolicyError; an underlying
// bcrypt failure wraps domain.ErrHashing.
func Hash(pw string) (string, error) {
	if res := Validate(pw); !res.Valid {
		return "", &domain.PasswordPolicyError{Violations: res.Errors}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}
	return string(hash), nil
}

// Verify reports whether pw matches hash. A mismatch is false, never an
// error; unexpected bcrypt failures (malformed hash, cost out of range) are
// also treated as false so a broken hash can never authenticate.
func Verify(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
