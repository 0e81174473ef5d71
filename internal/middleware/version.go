package middleware

import (
	"github.com/labstack/echo/v4"
)

// VersionMiddleware stamps responses with the API version they were served
// under.
type VersionMiddleware struct{}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{}
}

// VersionHeader adds the version header to every response in a group.
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			return next(c)
		}
	}
}
