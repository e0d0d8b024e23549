package ports

import (
	"context"
	"time"

	"github.com/vidvault/video-vault/internal/core/domain"
)

// UserWithStatus is a user record enriched with derived credential state and
// related-record counts for the admin dashboard.
type UserWithStatus struct {
	User           *domain.User          `json:"user"`
	PasswordStatus domain.PasswordStatus `json:"password_status"`
	AccessCodes    int64                 `json:"access_codes"`
	Videos         int64                 `json:"videos"`
}

// CreateUserInput describes an explicit admin-created user. At least one of
// Email or Name is required.
type CreateUserInput struct {
	Email             string
	Name              string
	Role              domain.Role
	RawPassword       string
	GenerateTemporary bool
}

// UpdateUserInput carries partial updates; nil fields are left untouched.
type UpdateUserInput struct {
	Email *string
	Name  *string
	Role  *domain.Role
}

// DeletionSummary reports how many related records went away with a user,
// for audit and admin confirmation.
type DeletionSummary struct {
	Videos      int64 `json:"videos"`
	Sessions    int64 `json:"sessions"`
	AccessCodes int64 `json:"access_codes"`
}

// CreateAccessCodeInput describes an admin-created access code.
type CreateAccessCodeInput struct {
	Code        string
	Type        domain.Role
	Description string
	ExpiresAt   *time.Time
}

// UserAdminService is the admin-only administration surface for users,
// credentials, and access codes.
type UserAdminService interface {
	ListUsers(ctx context.Context, actor *domain.User, meta domain.ClientMeta) ([]*UserWithStatus, error)
	GetUser(ctx context.Context, actor *domain.User, userID string) (*UserWithStatus, error)
	CreateUser(ctx context.Context, actor *domain.User, in CreateUserInput, meta domain.ClientMeta) (*SetPasswordResult, error)
	UpdateUser(ctx context.Context, actor *domain.User, userID string, in UpdateUserInput, meta domain.ClientMeta) (*domain.User, error)
	DeleteUser(ctx context.Context, actor *domain.User, userID string, meta domain.ClientMeta) (*DeletionSummary, error)

	ListAccessCodes(ctx context.Context, actor *domain.User) ([]*domain.AccessCode, error)
	CreateAccessCode(ctx context.Context, actor *domain.User, in CreateAccessCodeInput, meta domain.ClientMeta) (*domain.AccessCode, error)
	DeactivateAccessCode(ctx context.Context, actor *domain.User, codeID string, meta domain.ClientMeta) error
}
