package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/ports"
)

// auditor writes activity records best-effort: a failed write is logged and
// swallowed so it can never abort or fail the operation it describes.
type auditor struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

func (a *auditor) record(ctx context.Context, action, details, userID string, meta domain.ClientMeta) {
	if a.repo == nil {
		return
	}
	entry := &domain.ActivityEntry{
		Action:    action,
		Details:   details,
		UserID:    userID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.repo.Insert(ctx, entry); err != nil {
		a.log.Warn().Err(err).Str("action", action).Msg("failed to write activity record")
	}
}
