package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

const resetTokenTTL = time.Hour

// ResetToken is a freshly issued password-reset credential. Plain is returned
// exactly once to the caller (to embed in a reset link) and never stored;
// only Hashed goes to the database.
type ResetToken struct {
	Plain     string
	Hashed    string
	ExpiresAt time.Time
}

// NewResetToken issues a 32-byte random token valid for one hour.
func NewResetToken() (ResetToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return ResetToken{}, fmt.Errorf("reset token: %w", err)
	}

	plain := hex.EncodeToString(raw)
	return ResetToken{
		Plain:     plain,
		Hashed:    hashToken(plain),
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}, nil
}

// VerifyResetToken reports whether candidate produced storedHash. The
// comparison is constant-time to deny timing side-channels on token guessing.
func VerifyResetToken(candidate, storedHash string) bool {
	computed := hashToken(candidate)
	if len(computed) != len(storedHash) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
