package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-api/internal/core/domain"
)

// PageGuard protects the server-rendered pages. It expects OptionalAuth to
// have run first.
//
//   - /admin... requires an ADMIN session
//   - /comment... and any path containing /like require a session
//   - signed-in users are sent away from /login and /register
//
// Rejected requests are redirected (303) to /login with a callbackUrl.
func PageGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			role, _ := c.Get("role").(string)
			signedIn := domain.Role(role).Valid()
			isAdmin := domain.Role(role) == domain.RoleAdmin

			if strings.HasPrefix(path, "/admin") && !isAdmin {
				return redirectToLogin(c, path)
			}
			if (strings.HasPrefix(path, "/comment") || strings.Contains(path, "/like")) && !signedIn {
				return redirectToLogin(c, path)
			}
			if signedIn && (path == "/login" || path == "/register") {
				if isAdmin {
					return c.Redirect(http.StatusSeeOther, "/admin")
				}
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return next(c)
		}
	}
}

func redirectToLogin(c echo.Context, path string) error {
	q := url.Values{}
	q.Set("callbackUrl", path)
	return c.Redirect(http.StatusSeeOther, "/login?"+q.Encode())
}
