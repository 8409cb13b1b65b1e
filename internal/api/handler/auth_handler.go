package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/practicewtf/identity-service/internal/api/metrics"
	"github.com/practicewtf/identity-service/internal/core/domain"
	"github.com/practicewtf/identity-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account. No token is issued here: registration
// and login stay separate concerns.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return c.JSON(http.StatusConflict, errorResponse{Error: "user already exists"})
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid credentials"})
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Message: "user " + user.Username + " created",
	})
}

// Login authenticates a user and returns a signed bearer token, both in the
// Authorization response header and in the body. Every invalid-login reason
// collapses into a bodyless 401: the response never reveals whether the
// username exists.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   "empty body"
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrTooManyAttempts) {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "too many login attempts"})
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
			return c.NoContent(http.StatusUnauthorized)
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.Inc()

	c.Response().Header().Set(echo.HeaderAuthorization, "Bearer "+token)
	return c.JSON(http.StatusOK, loginResponse{Token: token})
}
