package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/practicewtf/identity-service/internal/core/domain"
	"github.com/practicewtf/identity-service/internal/core/ports"
)

// UserHandler handles principal projections and user lookups.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the username of the current principal, or a sentinel when the
// request carries none. A read-only projection, not an access check.
//
// @Summary      Current principal
// @Tags         users
// @Produce      json
// @Success      200  {object}  principalResponse
// @Router       /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	username, _ := c.Get("username").(string)
	if username == "" {
		username = anonymousPrincipal
	}
	return c.JSON(http.StatusOK, principalResponse{Username: username})
}

// UserGreeting greets an authenticated user. The authority gate lives in the
// route middleware, not here.
//
// @Summary      User probe
// @Tags         users
// @Produce      plain
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /user [get]
func (h *UserHandler) UserGreeting(c echo.Context) error {
	username, err := principal(c)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, "Hello user: "+username)
}

// AdminGreeting greets an authenticated admin.
//
// @Summary      Admin probe
// @Tags         users
// @Produce      plain
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin [get]
func (h *UserHandler) AdminGreeting(c echo.Context) error {
	username, err := principal(c)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, "Hello admin: "+username)
}

// Lookup returns the stored record for a username. The password hash is never
// serialized. The original design exposed this without authentication; here
// it sits behind the Auth middleware.
//
// @Summary      Look up a user by username
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userName  query     string  true  "Username to look up"
// @Success      200       {object}  domain.User
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) Lookup(c echo.Context) error {
	username := c.QueryParam("userName")

	user, err := h.userService.Lookup(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "username not found: " + username})
		}
		return err
	}

	return c.JSON(http.StatusOK, user)
}
