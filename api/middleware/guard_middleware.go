package middleware

import (
	"net/http"

	"storehub/internal/entity"

	"github.com/labstack/echo/v4"
)

// RequireGuard allows only the listed guards past.
func RequireGuard(guards ...entity.Guard) echo.MiddlewareFunc {
	allowed := make(map[entity.Guard]struct{}, len(guards))
	for _, guard := range guards {
		allowed[guard] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			guard, ok := GuardFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			if _, ok := allowed[guard]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// RequirePermission gates store-staff on a named permission. Admins and
// store owners are not permission-scoped and pass through.
func RequirePermission(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			guard, ok := GuardFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			if guard != entity.GuardStoreStaff {
				return next(c)
			}
			for _, permission := range PermissionsFromContext(c) {
				if permission == name {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
}
