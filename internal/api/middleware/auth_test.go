package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-api/internal/core/domain"
)

type stubTokenStore struct {
	revoked map[string]bool
	err     error
}

func (s *stubTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	s.revoked[jti] = true
	return nil
}

func (s *stubTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[jti], nil
}

func newStore() *stubTokenStore {
	return &stubTokenStore{revoked: map[string]bool{}}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func adminClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "u1",
		"email": "alice@example.com",
		"name":  "Alice",
		"role":  "ADMIN",
		"jti":   "jti-1",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthMiddleware_ValidBearer(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", adminClaims()))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret", newStore())(func(c echo.Context) error {
		called = true
		if c.Get("user_id") != "u1" {
			t.Fatalf("user_id not set")
		}
		if c.Get("role") != "ADMIN" {
			t.Fatalf("role not set")
		}
		if c.Get("email") != "alice@example.com" || c.Get("name") != "Alice" {
			t.Fatalf("identity not set")
		}
		if c.Get("jti") != "jti-1" {
			t.Fatalf("jti not set")
		}
		if exp, _ := c.Get("token_exp").(time.Time); exp.IsZero() {
			t.Fatalf("token_exp not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_Cookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signToken(t, "secret", adminClaims())})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth("secret", newStore())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := adminClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	noRole := adminClaims()
	delete(noRole, "role")

	cases := map[string]string{
		"missing header": "",
		"bad scheme":     "Token abc",
		"garbage":        "Bearer not-a-token",
		"wrong secret":   "Bearer " + signToken(t, "other", adminClaims()),
		"expired":        "Bearer " + signToken(t, "secret", expired),
		"no role":        "Bearer " + signToken(t, "secret", noRole),
		"empty bearer":   "Bearer ",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			handler := Auth("secret", newStore())(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	store := newStore()
	store.revoked["jti-1"] = true

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", adminClaims()))
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Auth("secret", store)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthMiddleware_RevocationStoreDown(t *testing.T) {
	store := newStore()
	store.err = errors.New("redis: connection refused")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", adminClaims()))
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Auth("secret", store)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	if err == nil || errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected an infrastructure error, got %v", err)
	}
}

func TestOptionalAuth(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	handler := OptionalAuth("secret", newStore())(func(c echo.Context) error {
		called = true
		if c.Get("user_id") != nil {
			t.Fatalf("no identity expected for an invalid token")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signToken(t, "secret", adminClaims())})
	c = e.NewContext(req, httptest.NewRecorder())
	handler = OptionalAuth("secret", newStore())(func(c echo.Context) error {
		if c.Get("role") != "ADMIN" {
			t.Fatalf("role not set")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
