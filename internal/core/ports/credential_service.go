package ports

import (
	"context"

	"github.com/vidvault/video-vault/internal/core/domain"
)

// SetPasswordInput selects the credential to install: exactly one of
// RawPassword or GenerateTemporary must be supplied.
type SetPasswordInput struct {
	RawPassword       string
	GenerateTemporary bool
	// ForceMustChange marks a caller-supplied password as requiring a change
	// on next login. Temporary passwords force the flag regardless.
	ForceMustChange bool
}

// SetPasswordResult carries the updated user and, when a temporary password
// was generated, its plaintext. The plaintext crosses the boundary exactly
// once here and is never persisted or retrievable again.
type SetPasswordResult struct {
	User              *domain.User
	TemporaryPassword string
}

// CredentialService owns the password lifecycle of a user record.
type CredentialService interface {
	SetPassword(ctx context.Context, actor *domain.User, userID string, in SetPasswordInput, meta domain.ClientMeta) (*SetPasswordResult, error)
	ClearPassword(ctx context.Context, actor *domain.User, userID string, meta domain.ClientMeta) (*domain.User, error)
	ChangeOwnPassword(ctx context.Context, userID, currentPassword, newPassword string, meta domain.ClientMeta) error
	RequestPasswordReset(ctx context.Context, email string, meta domain.ClientMeta) (string, error)
	ResetPasswordWithToken(ctx context.Context, email, token, newPassword string, meta domain.ClientMeta) error
}
