package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/password"
	"github.com/vidvault/video-vault/internal/core/ports"
)

// CredentialService owns every password write. All mutations go through it so
// the credential invariants hold everywhere: passwordSetAt is non-nil exactly
// when a hash is stored, and any password write clears the reset token pair.
type CredentialService struct {
	users   ports.UserRepository
	auditor auditor
	log     zerolog.Logger
	now     func() time.Time
}

func NewCredentialService(users ports.UserRepository, activity ports.ActivityRepository, log zerolog.Logger) *CredentialService {
	return &CredentialService{
		users:   users,
		auditor: auditor{repo: activity, log: log},
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetPassword installs a password on the target user. Exactly one of
// RawPassword or GenerateTemporary must be supplied. A generated temporary
// password forces mustChangePassword and is returned in plaintext exactly
// once; it is never persisted in clear or retrievable again.
func (s *CredentialService) SetPassword(ctx context.Context, actor *domain.User, userID string, in ports.SetPasswordInput, meta domain.ClientMeta) (*ports.SetPasswordResult, error) {
	if in.GenerateTemporary == (in.RawPassword != "") {
		return nil, &domain.PasswordPolicyError{Violations: []string{"exactly one of password or generate_temporary is required"}}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw := in.RawPassword
	temporary := in.GenerateTemporary
	if temporary {
		raw = password.GenerateTemporary()
	}

	hash, err := password.Hash(raw)
	if err != nil {
		return nil, err
	}

	s.applyPassword(user, hash, temporary || in.ForceMustChange)

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("persist password: %w", err)
	}

	kind := ""
	if temporary {
		kind = "temporary "
	}
	actorID := userID
	if actor != nil {
		actorID = actor.ID
	}
	s.auditor.record(ctx, domain.ActionPasswordSetByAdmin,
		fmt.Sprintf("%spassword set for user %s", kind, displayName(user)), actorID, meta)
	if actor != nil && actor.ID != userID {
		s.auditor.record(ctx, domain.ActionPasswordChangedByAdmin,
			fmt.Sprintf("password changed by administrator %s", displayName(actor)), userID, domain.ClientMeta{})
	}

	res := &ports.SetPasswordResult{User: updated}
	if temporary {
		res.TemporaryPassword = raw
	}
	return res, nil
}

// ClearPassword resets the user to the "no password" state, re-enabling
// access-code-only login. Idempotent: clearing twice leaves the same state.
func (s *CredentialService) ClearPassword(ctx context.Context, actor *domain.User, userID string, meta domain.ClientMeta) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	user.PasswordSetAt = nil
	user.MustChangePassword = false
	user.LastPasswordChange = nil
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil
	user.UpdatedAt = s.now()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("clear password: %w", err)
	}

	actorID := userID
	if actor != nil {
		actorID = actor.ID
	}
	s.auditor.record(ctx, domain.ActionPasswordCleared,
		fmt.Sprintf("password removed for user %s", displayName(user)), actorID, meta)
	if actor != nil && actor.ID != userID {
		s.auditor.record(ctx, domain.ActionPasswordChangedByAdmin,
			fmt.Sprintf("password removed by administrator %s", displayName(actor)), userID, domain.ClientMeta{})
	}

	return updated, nil
}

// ChangeOwnPassword is the self-service path. When the user already holds a
// password the current one must be presented and verified first.
func (s *CredentialService) ChangeOwnPassword(ctx context.Context, userID, currentPassword, newPassword string, meta domain.ClientMeta) error {
	if newPassword == "" {
		return &domain.PasswordPolicyError{Violations: []string{"new password is required"}}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.HasPassword() {
		if currentPassword == "" || !password.Verify(currentPassword, user.PasswordHash) {
			s.auditor.record(ctx, domain.ActionPasswordChangeFailed,
				"password change attempted with wrong current password", userID, meta)
			return domain.ErrInvalidCredentials
		}
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	// A voluntary change never implies mustChangePassword.
	s.applyPassword(user, hash, false)

	if _, err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("persist password: %w", err)
	}

	s.auditor.record(ctx, domain.ActionPasswordChanged, "password changed by the user", userID, meta)
	return nil
}

// RequestPasswordReset issues a one-time reset token for the account with the
// given email and returns its plaintext once. Only the hashed form is stored,
// replacing any previously live token.
func (s *CredentialService) RequestPasswordReset(ctx context.Context, email string, meta domain.ClientMeta) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token, err := password.NewResetToken()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}

	user.PasswordResetToken = token.Hashed
	expires := token.ExpiresAt
	user.PasswordResetExpires = &expires
	user.UpdatedAt = s.now()

	if _, err := s.users.Update(ctx, user); err != nil {
		return "", fmt.Errorf("persist reset token: %w", err)
	}

	s.auditor.record(ctx, domain.ActionPasswordResetRequested, "password reset token issued", user.ID, meta)
	return token.Plain, nil
}

// ResetPasswordWithToken redeems a reset token and installs the new password.
func (s *CredentialService) ResetPasswordWithToken(ctx context.Context, email, token, newPassword string, meta domain.ClientMeta) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if user.PasswordResetToken == "" || user.PasswordResetExpires == nil ||
		user.PasswordResetExpires.Before(s.now()) ||
		!password.VerifyResetToken(token, user.PasswordResetToken) {
		return domain.ErrInvalidCredentials
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	s.applyPassword(user, hash, false)

	if _, err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("persist password: %w", err)
	}

	s.auditor.record(ctx, domain.ActionPasswordResetRedeemed, "password reset via token", user.ID, meta)
	return nil
}

// applyPassword writes the hash and the bookkeeping every password write
// shares: both timestamps move to now and the reset token pair is cleared.
func (s *CredentialService) applyPassword(user *domain.User, hash string, mustChange bool) {
	now := s.now()
	user.PasswordHash = hash
	user.PasswordSetAt = &now
	user.LastPasswordChange = &now
	user.MustChangePassword = mustChange
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil
	user.UpdatedAt = now
}

// displayName picks the most human-readable identifier available.
func displayName(u *domain.User) string {
	switch {
	case u == nil:
		return "unknown"
	case u.Email != "":
		return u.Email
	case u.Name != "":
		return u.Name
	default:
		return u.ID
	}
}

var _ ports.CredentialService = (*CredentialService)(nil)
