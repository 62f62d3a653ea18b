package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestPageGuard(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		role     string
		code     int
		location string
	}{
		{"admin anonymous", "/admin", "", http.StatusSeeOther, "/login?callbackUrl=%2Fadmin"},
		{"admin nested path escaped", "/admin/visitors", "", http.StatusSeeOther, "/login?callbackUrl=%2Fadmin%2Fvisitors"},
		{"admin as visitor", "/admin", "VISITOR", http.StatusSeeOther, "/login?callbackUrl=%2Fadmin"},
		{"admin as admin", "/admin", "ADMIN", http.StatusOK, ""},
		{"comment anonymous", "/comment/a1", "", http.StatusSeeOther, "/login?callbackUrl=%2Fcomment%2Fa1"},
		{"like anonymous", "/blog/a1/like", "", http.StatusSeeOther, "/login?callbackUrl=%2Fblog%2Fa1%2Flike"},
		{"like as visitor", "/blog/a1/like", "VISITOR", http.StatusOK, ""},
		{"login as admin", "/login", "ADMIN", http.StatusSeeOther, "/admin"},
		{"register as visitor", "/register", "VISITOR", http.StatusSeeOther, "/"},
		{"login anonymous", "/login", "", http.StatusOK, ""},
		{"public page", "/blog", "", http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, tc.path, nil), rec)
			if tc.role != "" {
				c.Set("role", tc.role)
			}

			handler := PageGuard()(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if err := handler(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if got := rec.Header().Get(echo.HeaderLocation); got != tc.location {
				t.Fatalf("expected location %q, got %q", tc.location, got)
			}
		})
	}
}
