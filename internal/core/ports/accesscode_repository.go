package ports

import (
	"context"

	"github.com/vidvault/video-vault/internal/core/domain"
)

// AccessCodeRepository defines persistence for shared access codes.
type AccessCodeRepository interface {
	FindByCode(ctx context.Context, code string) (*domain.AccessCode, error)
	FindByID(ctx context.Context, id string) (*domain.AccessCode, error)
	FindAll(ctx context.Context) ([]*domain.AccessCode, error)
	Create(ctx context.Context, code *domain.AccessCode) (*domain.AccessCode, error)
	// BindUser sets the code's user binding only when no binding exists yet
	// (an atomic conditional update). It returns the code as stored after the
	// attempt, so a losing racer observes the winner's binding.
	BindUser(ctx context.Context, codeID, userID string) (*domain.AccessCode, error)
	Deactivate(ctx context.Context, id string) error
	// Upsert inserts the code if absent and leaves an existing record
	// untouched. Used for idempotent bootstrap of default codes.
	Upsert(ctx context.Context, code *domain.AccessCode) error
	CountActive(ctx context.Context) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	UnbindUser(ctx context.Context, userID string) (int64, error)
}
