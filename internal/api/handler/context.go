package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// anonymousPrincipal is returned by the /me projection when the request
// carries no authenticated principal.
const anonymousPrincipal = "Stranger"

// principal extracts the username injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty username
// proves the middleware ran. Handlers behind Auth should never see an empty
// one, but a misconfigured route must not fall through as authenticated.
func principal(c echo.Context) (string, error) {
	username, _ := c.Get("username").(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, nil
}
