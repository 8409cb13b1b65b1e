package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuthority gates a route behind the given authority strings. The
// principal passes when it carries at least one of them.
func RequireAuthority(required ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(required))
	for _, a := range required {
		allowed[a] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authorities, _ := c.Get("authorities").([]string)
			for _, a := range authorities {
				if _, ok := allowed[a]; ok {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
