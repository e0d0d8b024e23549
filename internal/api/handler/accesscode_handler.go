package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/ports"
)

// AccessCodeHandler handles the admin access-code surface.
type AccessCodeHandler struct {
	admin ports.UserAdminService
}

func NewAccessCodeHandler(admin ports.UserAdminService) *AccessCodeHandler {
	return &AccessCodeHandler{admin: admin}
}

// List returns every access code, active or not.
//
// @Summary      List access codes
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.AccessCode
// @Failure      403  {object}  map[string]string
// @Router       /admin/access-codes [get]
func (h *AccessCodeHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	codes, err := h.admin.ListAccessCodes(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, codes)
}

// Create registers a new shared access code.
//
// @Summary      Create an access code
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccessCodeRequest  true  "Code details"
// @Success      201   {object}  domain.AccessCode
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/access-codes [post]
func (h *AccessCodeHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createAccessCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	code, err := h.admin.CreateAccessCode(c.Request().Context(), actor, ports.CreateAccessCodeInput{
		Code:        req.Code,
		Type:        domain.Role(req.Type),
		Description: req.Description,
		ExpiresAt:   req.ExpiresAt,
	}, clientMeta(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, code)
}

// Deactivate disables an access code without deleting its history.
//
// @Summary      Deactivate an access code
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Access code ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /admin/access-codes/{id} [delete]
func (h *AccessCodeHandler) Deactivate(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.admin.DeactivateAccessCode(c.Request().Context(), actor, c.Param("id"), clientMeta(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "access code deactivated"})
}
