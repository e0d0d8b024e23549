package ports

import (
	"context"

	"github.com/vidvault/video-vault/internal/core/domain"
)

// UserRepository defines persistence for user identities and their
// credential metadata.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindAllWithPassword returns every user that currently holds a password
	// hash, for the authentication fallback scan.
	FindAllWithPassword(ctx context.Context) ([]*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
