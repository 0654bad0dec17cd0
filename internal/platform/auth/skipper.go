package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// publicPaths bypass authentication and tenant resolution.
var publicPaths = map[string]bool{
	"/":                          true,
	"/health":                    true,
	"/health/db":                 true,
	"/api/auth/login":            true,
	"/api/auth/register/company": true,
	"/api/auth/register/staff":   true,
}

// AuthSkipper returns true for requests whose path should skip
// authentication and tenant resolution.
func AuthSkipper(c echo.Context) bool {
	path := c.Path()
	if path == "" {
		path = c.Request().URL.Path
	}
	return IsPublicPath(path)
}

// IsPublicPath reports whether path is served without a token.
func IsPublicPath(path string) bool {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return publicPaths[path]
}
