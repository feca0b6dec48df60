package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuthority guards a route group: the request must carry an
// identity (401 otherwise) whose authority is in the allowed set (403
// otherwise).
func RequireAuthority(authorities ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(authorities))
	for _, a := range authorities {
		allowed[a] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := Identity(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[id.Authority]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
