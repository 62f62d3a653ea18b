package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-api/internal/core/domain"
)

// RBAC enforces role-based access control. It runs after Auth: a request
// without a role is unauthenticated, one with another role is forbidden.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[domain.Role(role)]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
