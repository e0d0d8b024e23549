package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/ports"
)

const (
	playbackURLTTL      = time.Hour
	recentActivityLimit = 10
)

// allowedMimeTypes is the upload whitelist.
var allowedMimeTypes = map[string]struct{}{
	"video/mp4":  {},
	"video/webm": {},
	"video/avi":  {},
}

// VideoService manages the video catalog: bytes in object storage, metadata
// in the database, plus the dashboard aggregates.
type VideoService struct {
	videos   ports.VideoRepository
	users    ports.UserRepository
	codes    ports.AccessCodeRepository
	blobs    ports.BlobStore
	activity ports.ActivityRepository
	auditor  auditor
	log      zerolog.Logger
	maxSize  int64
}

func NewVideoService(
	videos ports.VideoRepository,
	users ports.UserRepository,
	codes ports.AccessCodeRepository,
	blobs ports.BlobStore,
	activity ports.ActivityRepository,
	log zerolog.Logger,
	maxSize int64,
) *VideoService {
	if maxSize <= 0 {
		maxSize = 500 << 20
	}
	return &VideoService{
		videos:   videos,
		users:    users,
		codes:    codes,
		blobs:    blobs,
		activity: activity,
		auditor:  auditor{repo: activity, log: log},
		log:      log,
		maxSize:  maxSize,
	}
}

// Upload stores the file in object storage and records its metadata. The
// blob write happens first; if the metadata insert fails the blob is removed
// so callers never observe a half-applied upload.
func (s *VideoService) Upload(ctx context.Context, actor *domain.User, in ports.UploadVideoInput, meta domain.ClientMeta) (*domain.Video, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if in.Title == "" || in.Content == nil {
		return nil, fmt.Errorf("%w: file and title required", domain.ErrInvalidInput)
	}
	if _, ok := allowedMimeTypes[in.MimeType]; !ok {
		return nil, fmt.Errorf("%w: unsupported video type %q, use MP4, WebM or AVI", domain.ErrInvalidInput, in.MimeType)
	}
	if in.Size <= 0 || in.Size > s.maxSize {
		return nil, fmt.Errorf("%w: file too large, maximum is %dMB", domain.ErrInvalidInput, s.maxSize>>20)
	}

	objectKey := buildObjectKey(in.OriginalName)
	if err := s.blobs.Upload(ctx, objectKey, in.Content, in.Size, in.MimeType); err != nil {
		return nil, fmt.Errorf("upload blob: %w", err)
	}

	now := time.Now().UTC()
	video, err := s.videos.Create(ctx, &domain.Video{
		Title:        in.Title,
		Description:  in.Description,
		ObjectKey:    objectKey,
		OriginalName: in.OriginalName,
		MimeType:     in.MimeType,
		Size:         in.Size,
		IsPublished:  in.IsPublished,
		UploadedByID: actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, objectKey); delErr != nil {
			s.log.Warn().Err(delErr).Str("object_key", objectKey).Msg("failed to remove blob after metadata insert failure")
		}
		return nil, fmt.Errorf("persist video: %w", err)
	}

	s.auditor.record(ctx, domain.ActionVideoUploaded,
		fmt.Sprintf("video %q uploaded (%dMB)", in.Title, in.Size>>20), actor.ID, meta)

	s.log.Info().Str("video_id", video.ID).Str("title", in.Title).Int64("size", in.Size).Msg("video uploaded")
	return video, nil
}

// ListAll returns every video, for the admin dashboard.
func (s *VideoService) ListAll(ctx context.Context) ([]*domain.Video, error) {
	return s.videos.FindAll(ctx)
}

// ListPublished returns the viewer-facing catalog.
func (s *VideoService) ListPublished(ctx context.Context) ([]*domain.Video, error) {
	return s.videos.FindPublished(ctx)
}

// Update applies partial metadata changes, including the publish flag.
func (s *VideoService) Update(ctx context.Context, actor *domain.User, videoID string, in ports.UpdateVideoInput) (*domain.Video, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		video.Title = *in.Title
	}
	if in.Description != nil {
		video.Description = *in.Description
	}
	if in.IsPublished != nil {
		video.IsPublished = *in.IsPublished
	}
	video.UpdatedAt = time.Now().UTC()

	return s.videos.Update(ctx, video)
}

// Delete removes the metadata record and the underlying blob.
func (s *VideoService) Delete(ctx context.Context, actor *domain.User, videoID string, meta domain.ClientMeta) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if err := s.blobs.Delete(ctx, video.ObjectKey); err != nil {
		// The record is gone; an orphaned blob is recoverable by a sweep.
		s.log.Warn().Err(err).Str("object_key", video.ObjectKey).Msg("failed to delete blob")
	}

	s.auditor.record(ctx, domain.ActionVideoDeleted,
		fmt.Sprintf("video %q deleted", video.Title), actor.ID, meta)
	return nil
}

// PlaybackURL returns a presigned, time-limited URL for streaming the video
// straight from object storage. Unpublished videos are invisible to viewers;
// they resolve only for administrators.
func (s *VideoService) PlaybackURL(ctx context.Context, actor *domain.User, videoID string) (string, error) {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return "", err
	}
	if !video.IsPublished && requireAdmin(actor) != nil {
		return "", domain.ErrVideoNotFound
	}
	url, err := s.blobs.PresignedURL(ctx, video.ObjectKey, playbackURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign playback url: %w", err)
	}
	return url, nil
}

// Stats aggregates the admin dashboard numbers.
func (s *VideoService) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	totalVideos, err := s.videos.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count videos: %w", err)
	}
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	activeCodes, err := s.codes.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count access codes: %w", err)
	}
	totalSize, err := s.videos.TotalSize(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate storage: %w", err)
	}
	recent, err := s.activity.FindRecent(ctx, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}

	return &ports.DashboardStats{
		TotalVideos:      totalVideos,
		TotalUsers:       int64(len(users)),
		TotalAccessCodes: activeCodes,
		TotalStorage:     totalSize,
		RecentActivity:   recent,
	}, nil
}

// buildObjectKey derives a collision-free object name from the original
// filename, keeping the extension for content-type sniffing.
func buildObjectKey(originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	base := strings.TrimSuffix(path.Base(originalName), ext)
	base = sanitizeFilename(base)
	if base == "" {
		base = "video"
	}
	return fmt.Sprintf("videos/%s_%s%s", base, uuid.NewString(), ext)
}

// sanitizeFilename strips everything but letters, digits, dash and underscore.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

var _ ports.VideoService = (*VideoService)(nil)
