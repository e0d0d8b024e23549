package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/ports"
)

// UserAdminService implements admin administration of users, their
// credentials, and access codes. Every operation requires an ADMIN actor and
// emits paired audit records: one attributed to the acting admin, one to the
// target user.
type UserAdminService struct {
	users       ports.UserRepository
	codes       ports.AccessCodeRepository
	videos      ports.VideoRepository
	credentials ports.CredentialService
	auditor     auditor
	log         zerolog.Logger
	now         func() time.Time
}

func NewUserAdminService(
	users ports.UserRepository,
	codes ports.AccessCodeRepository,
	videos ports.VideoRepository,
	credentials ports.CredentialService,
	activity ports.ActivityRepository,
	log zerolog.Logger,
) *UserAdminService {
	return &UserAdminService{
		users:       users,
		codes:       codes,
		videos:      videos,
		credentials: credentials,
		auditor:     auditor{repo: activity, log: log},
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func requireAdmin(actor *domain.User) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

// ListUsers returns every user enriched with derived password status and
// related-record counts.
func (s *UserAdminService) ListUsers(ctx context.Context, actor *domain.User, meta domain.ClientMeta) ([]*ports.UserWithStatus, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]*ports.UserWithStatus, 0, len(users))
	for _, u := range users {
		enriched, err := s.enrich(ctx, u)
		if err != nil {
			return nil, err
		}
		out = append(out, enriched)
	}

	s.auditor.record(ctx, "USERS_LIST_ACCESSED", "user list consulted", actor.ID, meta)
	return out, nil
}

// GetUser returns one user with derived status.
func (s *UserAdminService) GetUser(ctx context.Context, actor *domain.User, userID string) (*ports.UserWithStatus, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, user)
}

func (s *UserAdminService) enrich(ctx context.Context, u *domain.User) (*ports.UserWithStatus, error) {
	codeCount, err := s.codes.CountByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("count access codes: %w", err)
	}
	videoCount, err := s.videos.CountByUploader(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("count videos: %w", err)
	}
	return &ports.UserWithStatus{
		User:           u,
		PasswordStatus: u.PasswordStatusAt(s.now()),
		AccessCodes:    codeCount,
		Videos:         videoCount,
	}, nil
}

// CreateUser creates an explicit user record. At least one of email or name
// is required; a duplicate email fails with ErrUserExists. When neither
// password option is given the user is created without one and must rely on
// an access code.
func (s *UserAdminService) CreateUser(ctx context.Context, actor *domain.User, in ports.CreateUserInput, meta domain.ClientMeta) (*ports.SetPasswordResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if in.Email == "" && in.Name == "" {
		return nil, fmt.Errorf("%w: email or name required", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, in.Role)
	}

	if in.Email != "" {
		if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
			return nil, domain.ErrUserExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("check email uniqueness: %w", err)
		}
	}

	now := s.now()
	created, err := s.users.Create(ctx, &domain.User{
		Email:     in.Email,
		Name:      in.Name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	res := &ports.SetPasswordResult{User: created}
	if in.RawPassword != "" || in.GenerateTemporary {
		res, err = s.credentials.SetPassword(ctx, actor, created.ID, ports.SetPasswordInput{
			RawPassword:       in.RawPassword,
			GenerateTemporary: in.GenerateTemporary,
		}, meta)
		if err != nil {
			// Leave no orphan behind when the password was rejected.
			if delErr := s.users.Delete(ctx, created.ID); delErr != nil {
				s.log.Warn().Err(delErr).Str("user_id", created.ID).Msg("failed to remove user after password rejection")
			}
			return nil, err
		}
	}

	s.auditor.record(ctx, domain.ActionUserCreated,
		fmt.Sprintf("user %s created with role %s", displayName(created), role), actor.ID, meta)
	s.auditor.record(ctx, domain.ActionUserCreated,
		fmt.Sprintf("account created by administrator %s", displayName(actor)), created.ID, domain.ClientMeta{})

	return res, nil
}

// UpdateUser applies partial profile updates. Self-modification through this
// path is forbidden to guard against accidental lockout or privilege loss.
func (s *UserAdminService) UpdateUser(ctx context.Context, actor *domain.User, userID string, in ports.UpdateUserInput, meta domain.ClientMeta) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if userID == actor.ID {
		return nil, domain.ErrSelfModification
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var changes []string
	if in.Email != nil && *in.Email != user.Email {
		if *in.Email != "" {
			if other, err := s.users.FindByEmail(ctx, *in.Email); err == nil && other.ID != userID {
				return nil, domain.ErrUserExists
			} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, fmt.Errorf("check email uniqueness: %w", err)
			}
		}
		changes = append(changes, fmt.Sprintf("email: %s -> %s", user.Email, *in.Email))
		user.Email = *in.Email
	}
	if in.Name != nil && *in.Name != user.Name {
		changes = append(changes, fmt.Sprintf("name: %s -> %s", user.Name, *in.Name))
		user.Name = *in.Name
	}
	if in.Role != nil && *in.Role != user.Role {
		if !in.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, *in.Role)
		}
		changes = append(changes, fmt.Sprintf("role: %s -> %s", user.Role, *in.Role))
		user.Role = *in.Role
	}

	if len(changes) == 0 {
		return user, nil
	}
	user.UpdatedAt = s.now()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	detail := strings.Join(changes, ", ")
	s.auditor.record(ctx, domain.ActionUserUpdated,
		fmt.Sprintf("user %s updated (%s)", displayName(updated), detail), actor.ID, meta)
	s.auditor.record(ctx, domain.ActionUserProfileUpdated,
		fmt.Sprintf("profile updated by administrator: %s", detail), userID, domain.ClientMeta{})

	return updated, nil
}

// DeleteUser removes a user and everything it owns. Self-deletion is
// forbidden. The returned summary reports the cascade for admin confirmation;
// sessions are stateless JWTs, so their count is always zero.
func (s *UserAdminService) DeleteUser(ctx context.Context, actor *domain.User, userID string, meta domain.ClientMeta) (*ports.DeletionSummary, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if userID == actor.ID {
		return nil, domain.ErrSelfModification
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	videos, err := s.videos.DeleteByUploader(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cascade videos: %w", err)
	}
	codes, err := s.codes.UnbindUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cascade access codes: %w", err)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}

	summary := &ports.DeletionSummary{Videos: videos, AccessCodes: codes}
	s.auditor.record(ctx, domain.ActionUserDeleted,
		fmt.Sprintf("user %s deleted (%d videos, %d access codes)", displayName(user), videos, codes),
		actor.ID, meta)

	return summary, nil
}

// ListAccessCodes returns every code, bound or not.
func (s *UserAdminService) ListAccessCodes(ctx context.Context, actor *domain.User) ([]*domain.AccessCode, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.codes.FindAll(ctx)
}

// CreateAccessCode registers a new invite code.
func (s *UserAdminService) CreateAccessCode(ctx context.Context, actor *domain.User, in ports.CreateAccessCodeInput, meta domain.ClientMeta) (*domain.AccessCode, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if in.Code == "" {
		return nil, fmt.Errorf("%w: code string required", domain.ErrInvalidInput)
	}
	codeType := in.Type
	if codeType == "" {
		codeType = domain.RoleUser
	}
	if !codeType.Valid() {
		return nil, fmt.Errorf("%w: unknown code type %q", domain.ErrInvalidInput, in.Type)
	}

	now := s.now()
	created, err := s.codes.Create(ctx, &domain.AccessCode{
		Code:        in.Code,
		Type:        codeType,
		Description: in.Description,
		IsActive:    true,
		ExpiresAt:   in.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.auditor.record(ctx, domain.ActionAccessCodeCreated,
		fmt.Sprintf("%s access code created", codeType), actor.ID, meta)
	return created, nil
}

// DeactivateAccessCode turns a code off. A deactivated code never resolves
// again, even for the user it is bound to.
func (s *UserAdminService) DeactivateAccessCode(ctx context.Context, actor *domain.User, codeID string, meta domain.ClientMeta) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if _, err := s.codes.FindByID(ctx, codeID); err != nil {
		return err
	}
	if err := s.codes.Deactivate(ctx, codeID); err != nil {
		return fmt.Errorf("deactivate access code: %w", err)
	}

	s.auditor.record(ctx, domain.ActionAccessCodeDisabled, "access code deactivated", actor.ID, meta)
	return nil
}

var _ ports.UserAdminService = (*UserAdminService)(nil)
