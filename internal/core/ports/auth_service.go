package ports

import (
	"context"

	"github.com/vidvault/video-vault/internal/core/domain"
)

// AuthService authenticates a single opaque secret, which may be either a
// shared access code or a per-user password.
type AuthService interface {
	Authenticate(ctx context.Context, secret string, meta domain.ClientMeta) (string, *domain.User, error)
}

// AccessCodeResolver resolves a code string to an identity, lazily minting
// the user on first redemption.
type AccessCodeResolver interface {
	Resolve(ctx context.Context, code string, meta domain.ClientMeta) (*domain.User, error)
}
