package ports

import (
	"context"

	"github.com/vidvault/video-vault/internal/core/domain"
)

// ActivityRepository is the append-only audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityEntry) error
	FindRecent(ctx context.Context, limit int) ([]*domain.ActivityEntry, error)
}
