package ports

import (
	"context"
	"io"

	"github.com/vidvault/video-vault/internal/core/domain"
)

// UploadVideoInput describes an admin multipart upload.
type UploadVideoInput struct {
	Title        string
	Description  string
	OriginalName string
	MimeType     string
	Size         int64
	Content      io.Reader
	IsPublished  bool
}

// UpdateVideoInput carries partial metadata updates; nil fields are left
// untouched.
type UpdateVideoInput struct {
	Title       *string
	Description *string
	IsPublished *bool
}

// DashboardStats aggregates the admin dashboard numbers.
type DashboardStats struct {
	TotalVideos      int64                   `json:"total_videos"`
	TotalUsers       int64                   `json:"total_users"`
	TotalAccessCodes int64                   `json:"total_access_codes"`
	TotalStorage     int64                   `json:"total_storage"`
	RecentActivity   []*domain.ActivityEntry `json:"recent_activity"`
}

// VideoService owns the video catalog: blob upload/removal, metadata, the
// viewer listing, and playback URLs.
type VideoService interface {
	Upload(ctx context.Context, actor *domain.User, in UploadVideoInput, meta domain.ClientMeta) (*domain.Video, error)
	ListAll(ctx context.Context) ([]*domain.Video, error)
	ListPublished(ctx context.Context) ([]*domain.Video, error)
	Update(ctx context.Context, actor *domain.User, videoID string, in UpdateVideoInput) (*domain.Video, error)
	Delete(ctx context.Context, actor *domain.User, videoID string, meta domain.ClientMeta) error
	PlaybackURL(ctx context.Context, actor *domain.User, videoID string) (string, error)
	Stats(ctx context.Context) (*DashboardStats, error)
}
