package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Auth validates the bearer token and injects the principal into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := bearerClaims(c, jwtSecret)
			if err != nil {
				return err
			}
			setPrincipal(c, claims)
			return next(c)
		}
	}
}

// Principal is the best-effort variant of Auth: it injects the principal when
// a valid bearer token is present and lets the request through either way.
// Handlers behind it must treat the principal as informational only.
func Principal(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := bearerClaims(c, jwtSecret); err == nil {
				setPrincipal(c, claims)
			}
			return next(c)
		}
	}
}

func bearerClaims(c echo.Context, jwtSecret string) (jwt.MapClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	return claims, nil
}

func setPrincipal(c echo.Context, claims jwt.MapClaims) {
	username, _ := claims["sub"].(string)
	c.Set("username", username)

	var authorities []string
	if raw, ok := claims["authorities"].([]interface{}); ok {
		for _, a := range raw {
			if s, ok := a.(string); ok {
				authorities = append(authorities, s)
			}
		}
	}
	c.Set("authorities", authorities)
}
