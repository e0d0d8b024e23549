package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/ports"
)

// DefaultCodes are the bootstrap access codes installed at startup so a fresh
// deployment is reachable before any admin exists.
type DefaultCodes struct {
	UserCode  string
	AdminCode string
}

// EnsureDefaultCodes upserts the default codes. The operation is idempotent
// and safe to run concurrently across instances: the store's unique
// constraint on the code string arbitrates, and no in-memory "already
// initialized" state is kept.
func EnsureDefaultCodes(ctx context.Context, codes ports.AccessCodeRepository, defaults DefaultCodes, log zerolog.Logger) error {
	now := time.Now().UTC()
	seeds := []*domain.AccessCode{
		{Code: defaults.UserCode, Type: domain.RoleUser, IsActive: true, Description: "Default user access code", CreatedAt: now, UpdatedAt: now},
		{Code: defaults.AdminCode, Type: domain.RoleAdmin, IsActive: true, Description: "Default admin access code", CreatedAt: now, UpdatedAt: now},
	}

	for _, seed := range seeds {
		if seed.Code == "" {
			continue
		}
		if err := codes.Upsert(ctx, seed); err != nil {
			return fmt.Errorf("seed %s access code: %w", seed.Type, err)
		}
		log.Debug().Str("type", string(seed.Type)).Msg("default access code ensured")
	}
	return nil
}
