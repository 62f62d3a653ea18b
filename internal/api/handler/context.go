package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-api/internal/api/middleware"
	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

// principal returns the authenticated caller or ErrUnauthenticated.
func principal(c echo.Context) (ports.Principal, error) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return ports.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}
