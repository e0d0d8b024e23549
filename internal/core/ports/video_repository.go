package ports

import (
	"context"

	"github.com/vidvault/video-vault/internal/core/domain"
)

// VideoRepository defines persistence for video metadata records.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) (*domain.Video, error)
	FindByID(ctx context.Context, id string) (*domain.Video, error)
	FindAll(ctx context.Context) ([]*domain.Video, error)
	FindPublished(ctx context.Context) ([]*domain.Video, error)
	Update(ctx context.Context, video *domain.Video) (*domain.Video, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByUploader(ctx context.Context, userID string) (int64, error)
	DeleteByUploader(ctx context.Context, userID string) (int64, error)
	TotalSize(ctx context.Context) (int64, error)
}
