package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidvault/video-vault/internal/core/domain"
)

// ctxActor rebuilds the acting identity from the claims injected by the Auth
// middleware. Role presence proves the middleware ran; a token without a
// subject is structurally valid but operationally unusable; reject with 401.
func ctxActor(c echo.Context) (*domain.User, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)

	if userID == "" || role == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return &domain.User{ID: userID, Role: domain.Role(role)}, nil
}

// clientMeta captures the request origin for audit records.
func clientMeta(c echo.Context) domain.ClientMeta {
	return domain.ClientMeta{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
