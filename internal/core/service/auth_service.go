package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/password"
	"github.com/vidvault/video-vault/internal/core/ports"
)

// AuthService implements the dual-mode login: a single secret is interpreted
// first as an access code and only then as a password. The ordering is a
// contract: a user-chosen password that happens to collide with a valid
// code's literal string must resolve as the code.
type AuthService struct {
	resolver  ports.AccessCodeResolver
	users     ports.UserRepository
	auditor   auditor
	log       zerolog.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(resolver ports.AccessCodeResolver, users ports.UserRepository, activity ports.ActivityRepository, log zerolog.Logger, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		resolver:  resolver,
		users:     users,
		auditor:   auditor{repo: activity, log: log},
		log:       log,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Authenticate resolves the secret to an identity and returns a signed
// session token. Every failure (unknown code, disabled code, no password
// match, internal storage error) collapses to ErrInvalidCredentials so the
// caller learns nothing about which stage failed.
func (s *AuthService) Authenticate(ctx context.Context, secret string, meta domain.ClientMeta) (string, *domain.User, error) {
	if secret == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	// Stage 1: access code. Completes fully (including any user-creation
	// side effect) before the password scan begins; the stages are never raced.
	user, err := s.resolver.Resolve(ctx, secret, meta)
	switch {
	case err == nil:
		token, err := s.generateToken(user)
		if err != nil {
			s.log.Error().Err(err).Msg("token generation failed after code resolution")
			return "", nil, domain.ErrInvalidCredentials
		}
		return token, user, nil
	case errors.Is(err, domain.ErrAccessCodeNotFound):
		// Fall through to the password interpretation.
	default:
		s.log.Error().Err(err).Msg("access code resolution failed")
		return "", nil, domain.ErrInvalidCredentials
	}

	// Stage 2: try the secret as a password against every user holding one.
	// Scan order is unspecified; passwords are unique secrets in practice,
	// so at most one should ever match.
	candidates, err := s.users.FindAllWithPassword(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("password candidate scan failed")
		return "", nil, domain.ErrInvalidCredentials
	}

	for _, u := range candidates {
		if !password.Verify(secret, u.PasswordHash) {
			continue
		}

		s.auditor.record(ctx, domain.ActionLoginPassword, "login with password", u.ID, meta)
		token, err := s.generateToken(u)
		if err != nil {
			s.log.Error().Err(err).Msg("token generation failed after password match")
			return "", nil, domain.ErrInvalidCredentials
		}
		return token, u, nil
	}

	s.auditor.record(ctx, domain.ActionLoginFailed, "no access code or password matched", "", meta)
	return "", nil, domain.ErrInvalidCredentials
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
