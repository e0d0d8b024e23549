package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/ports"
)

// AccessCodeResolverService resolves a shared code string to an identity.
// Codes are invite secrets, not per-user credentials: the first valid
// redemption mints a user and binds the code to it permanently.
type AccessCodeResolverService struct {
	codes   ports.AccessCodeRepository
	users   ports.UserRepository
	auditor auditor
	log     zerolog.Logger
	now     func() time.Time
}

func NewAccessCodeResolver(codes ports.AccessCodeRepository, users ports.UserRepository, activity ports.ActivityRepository, log zerolog.Logger) *AccessCodeResolverService {
	return &AccessCodeResolverService{
		codes:   codes,
		users:   users,
		auditor: auditor{repo: activity, log: log},
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Resolve looks up the code and returns the identity it grants. Unknown,
// inactive, and expired codes all collapse to ErrAccessCodeNotFound so a
// caller cannot distinguish a wrong code from a disabled one.
func (s *AccessCodeResolverService) Resolve(ctx context.Context, code string, meta domain.ClientMeta) (*domain.User, error) {
	ac, err := s.codes.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrAccessCodeNotFound) {
			return nil, domain.ErrAccessCodeNotFound
		}
		return nil, fmt.Errorf("resolve access code: %w", err)
	}
	if !ac.Usable(s.now()) {
		return nil, domain.ErrAccessCodeNotFound
	}

	user, err := s.identityFor(ctx, ac)
	if err != nil {
		return nil, err
	}

	s.auditor.record(ctx, domain.ActionLoginAccessCode,
		fmt.Sprintf("login with %s access code", ac.Type), user.ID, meta)

	return user, nil
}

// identityFor returns the user bound to the code, minting and binding one on
// first redemption. The bind is an atomic conditional update: when two
// requests race on a never-bound code, exactly one binding wins and the loser
// adopts the winner's identity, discarding its provisional user.
func (s *AccessCodeResolverService) identityFor(ctx context.Context, ac *domain.AccessCode) (*domain.User, error) {
	if ac.UserID != "" {
		user, err := s.users.FindByID(ctx, ac.UserID)
		if err != nil {
			return nil, fmt.Errorf("resolve bound user: %w", err)
		}
		return user, nil
	}

	now := s.now()
	created, err := s.users.Create(ctx, &domain.User{
		Role:      ac.GrantedRole(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("provision user for code: %w", err)
	}

	bound, err := s.codes.BindUser(ctx, ac.ID, created.ID)
	if err != nil {
		return nil, fmt.Errorf("bind access code: %w", err)
	}
	if bound.UserID != created.ID {
		// Lost the race. Clean up the provisional user and return the winner.
		if delErr := s.users.Delete(ctx, created.ID); delErr != nil {
			s.log.Warn().Err(delErr).Str("user_id", created.ID).Msg("failed to remove provisional user after lost bind race")
		}
		winner, err := s.users.FindByID(ctx, bound.UserID)
		if err != nil {
			return nil, fmt.Errorf("resolve bind winner: %w", err)
		}
		return winner, nil
	}

	s.log.Info().Str("code_id", ac.ID).Str("user_id", created.ID).Str("role", string(created.Role)).Msg("access code bound to new user")
	return created, nil
}
