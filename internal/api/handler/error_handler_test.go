package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portfolio/blog-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", domain.NewValidationError("title", "title is required"), http.StatusBadRequest, "title is required"},
		{"wrapped validation", fmt.Errorf("create: %w", domain.NewValidationError("content", "content is required")), http.StatusBadRequest, "content is required"},
		{"unpublished", domain.NewNotPublishedError("like"), http.StatusBadRequest, "cannot like an unpublished article"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "email or password incorrect"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"article missing", fmt.Errorf("get: %w", domain.ErrArticleNotFound), http.StatusNotFound, "article not found"},
		{"project missing", domain.ErrProjectNotFound, http.StatusNotFound, "project not found"},
		{"conflict", domain.ErrEmailTaken, http.StatusConflict, "email already in use"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"unexpected", errors.New("connection reset by peer"), http.StatusInternalServerError, "internal server error"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, body.Error)
			}
		})
	}
}
