package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vidvault/video-vault/internal/api/metrics"
	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/ports"
)

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter interface {
	Allow(ctx context.Context, ip string) (bool, error)
	Reset(ctx context.Context, ip string) error
}

// AuthHandler handles login, self-service password changes, and the
// password-reset flow.
type AuthHandler struct {
	auth        ports.AuthService
	credentials ports.CredentialService
	limiter     LoginLimiter
	log         zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, credentials ports.CredentialService, limiter LoginLimiter, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, credentials: credentials, limiter: limiter, log: log}
}

// Login authenticates a single opaque secret, either an access code or a
// per-user password.
//
// @Summary      Login with an access code or password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "The secret to authenticate"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	meta := clientMeta(c)

	allowed, err := h.limiter.Allow(c.Request().Context(), meta.IPAddress)
	if err != nil {
		// Redis being down must not lock everyone out.
		h.log.Warn().Err(err).Msg("login rate limiter unavailable, allowing request")
		allowed = true
	}
	if !allowed {
		metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
		return domain.ErrRateLimited
	}

	token, user, err := h.auth.Authenticate(c.Request().Context(), req.Secret, meta)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	if err := h.limiter.Reset(c.Request().Context(), meta.IPAddress); err != nil {
		h.log.Warn().Err(err).Msg("failed to reset login attempt counter")
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:              token,
		User:               user,
		MustChangePassword: user.MustChangePassword,
	})
}

// ChangePassword lets an authenticated user rotate their own password.
//
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /me/password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.credentials.ChangeOwnPassword(c.Request().Context(), actor.ID, req.CurrentPassword, req.NewPassword, clientMeta(c)); err != nil {
		metrics.PasswordChangesTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.PasswordChangesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed"})
}

// RequestPasswordReset issues a reset token for the given email. The response
// is identical whether or not the email matches an account.
//
// @Summary      Request a password reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      passwordResetRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req passwordResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// The token is delivered out of band. Unknown emails get the same
	// response so the endpoint cannot be used to enumerate accounts.
	if _, err := h.credentials.RequestPasswordReset(c.Request().Context(), req.Email, clientMeta(c)); err != nil {
		h.log.Debug().Err(err).Msg("password reset request did not produce a token")
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "if the account exists, a reset token has been issued"})
}

// ConfirmPasswordReset redeems a reset token and installs the new password.
//
// @Summary      Redeem a password reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      passwordResetConfirmRequest  true  "Email, token, and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/password-reset/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	var req passwordResetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.credentials.ResetPasswordWithToken(c.Request().Context(), req.Email, req.Token, req.NewPassword, clientMeta(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "password reset"})
}
