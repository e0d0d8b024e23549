package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidvault/video-vault/internal/api/metrics"
	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/ports"
)

// UserHandler handles the admin user-administration surface, including
// credential installation and removal.
type UserHandler struct {
	admin       ports.UserAdminService
	credentials ports.CredentialService
}

func NewUserHandler(admin ports.UserAdminService, credentials ports.CredentialService) *UserHandler {
	return &UserHandler{admin: admin, credentials: credentials}
}

// List returns every user enriched with derived password status.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.UserWithStatus
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	users, err := h.admin.ListUsers(c.Request().Context(), actor, clientMeta(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, users)
}

// Get returns a single user with derived password status.
//
// @Summary      Get a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  ports.UserWithStatus
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.admin.GetUser(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// Create provisions an explicit user, optionally installing a password or a
// generated temporary one in the same call.
//
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user details"
// @Success      201   {object}  setPasswordResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.admin.CreateUser(c.Request().Context(), actor, ports.CreateUserInput{
		Email:             req.Email,
		Name:              req.Name,
		Role:              domain.Role(req.Role),
		RawPassword:       req.Password,
		GenerateTemporary: req.GenerateTemporaryPassword,
	}, clientMeta(c))
	if err != nil {
		return err
	}

	if req.GenerateTemporaryPassword {
		metrics.PasswordsSetTotal.WithLabelValues("temporary").Inc()
	} else if req.Password != "" {
		metrics.PasswordsSetTotal.WithLabelValues("explicit").Inc()
	}

	return c.JSON(http.StatusCreated, setPasswordResponse{
		User:              result.User,
		TemporaryPassword: result.TemporaryPassword,
	})
}

// Update applies a partial update to a user's profile.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.UpdateUserInput{Email: req.Email, Name: req.Name}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}

	user, err := h.admin.UpdateUser(c.Request().Context(), actor, c.Param("id"), in, clientMeta(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// Delete removes a user and cascades to their videos and code bindings.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  deleteUserResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	summary, err := h.admin.DeleteUser(c.Request().Context(), actor, c.Param("id"), clientMeta(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteUserResponse{Message: "user deleted", Deleted: *summary})
}

// SetPassword installs a password for a user, either admin-supplied or a
// generated temporary one.
//
// @Summary      Set or generate a user's password
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "User ID"
// @Param        body  body      setPasswordRequest  true  "Password or generation flag"
// @Success      200   {object}  setPasswordResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id}/password [put]
func (h *UserHandler) SetPassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req setPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.credentials.SetPassword(c.Request().Context(), actor, c.Param("id"), ports.SetPasswordInput{
		RawPassword:       req.Password,
		GenerateTemporary: req.GenerateTemporary,
		ForceMustChange:   req.MustChangePassword,
	}, clientMeta(c))
	if err != nil {
		return err
	}

	mode := "explicit"
	if req.GenerateTemporary {
		mode = "temporary"
	}
	metrics.PasswordsSetTotal.WithLabelValues(mode).Inc()

	return c.JSON(http.StatusOK, setPasswordResponse{
		User:              result.User,
		TemporaryPassword: result.TemporaryPassword,
	})
}

// ClearPassword removes a user's password credential entirely.
//
// @Summary      Clear a user's password
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id}/password [delete]
func (h *UserHandler) ClearPassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.credentials.ClearPassword(c.Request().Context(), actor, c.Param("id"), clientMeta(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}
