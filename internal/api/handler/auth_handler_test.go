package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portfolio/blog-api/internal/api/middleware"
	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

// serve runs h and, like Echo does, hands a returned error to the error handler.
func serve(c echo.Context, h echo.HandlerFunc) {
	if err := h(c); err != nil {
		NewHTTPErrorHandler(zerolog.Nop())(err, c)
	}
}

func sessionCookie(rec interface{ Result() *http.Response }) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			return ck
		}
	}
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			if name != "Alice" || email != "alice@example.com" || password != "password123" {
				t.Fatalf("unexpected args: %s %s %s", name, email, password)
			}
			return &domain.User{ID: "u1", Name: name, Email: email, PasswordHash: "hash", Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newContext(http.MethodPost, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"password123"}`)
	serve(c, h.Register)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "alice@example.com" || resp["role"] != "ADMIN" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, leaked := resp["passwordHash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newContext(http.MethodPost, "/api/auth/register", `{"name":"Bob","email":"bob@example.com","password":"password123"}`)
	serve(c, h.Register)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, false)

	cases := map[string]string{
		"short password": `{"name":"Bob","email":"bob@example.com","password":"short"}`,
		"bad email":      `{"name":"Bob","email":"not-an-email","password":"password123"}`,
		"short name":     `{"name":"B","email":"bob@example.com","password":"password123"}`,
		"not json":       `not-json`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec := newContext(http.MethodPost, "/api/auth/register", body)
			serve(c, h.Register)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.Session, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.Session{
				Token:     "token123",
				ExpiresAt: expires,
				User:      &domain.User{ID: "u1", Email: email, Role: domain.RoleAdmin},
			}, nil
		},
	}
	h := NewAuthHandler(stub, true)

	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"secret"}`)
	serve(c, h.Login)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["role"] != "ADMIN" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}

	ck := sessionCookie(rec)
	if ck == nil {
		t.Fatalf("session cookie not set")
	}
	if ck.Value != "token123" || !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"bad"}`)
	serve(c, h.Login)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "email or password incorrect" {
		t.Fatalf("unexpected message %q", body.Error)
	}
	if sessionCookie(rec) != nil {
		t.Fatalf("no cookie expected on failure")
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.Session, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newContext(http.MethodPost, "/api/auth/login", "{")
	serve(c, h.Login)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Visitor(t *testing.T) {
	stub := &stubAuthService{
		visitorFn: func(ctx context.Context, email string) (*ports.Session, error) {
			return &ports.Session{
				Token:     "visitor-token",
				ExpiresAt: time.Now().Add(time.Hour),
				Visitor:   &domain.Visitor{ID: "v1", Email: email},
			}, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newContext(http.MethodPost, "/api/auth/visitor", `{"email":"reader@example.com"}`)
	serve(c, h.Visitor)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "visitor-token" || resp.Visitor == nil || resp.Visitor.Email != "reader@example.com" || resp.User != nil {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if ck := sessionCookie(rec); ck == nil || ck.Value != "visitor-token" {
		t.Fatalf("visitor cookie not set: %+v", ck)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var got ports.Principal
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, p ports.Principal) error {
			got = p
			return nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newContext(http.MethodPost, "/api/auth/logout", "")
	withPrincipal(c, "u1", "alice@example.com", "Alice", domain.RoleAdmin)
	serve(c, h.Logout)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.ID != "u1" || got.TokenID != "jti-u1" {
		t.Fatalf("unexpected principal: %+v", got)
	}
	ck := sessionCookie(rec)
	if ck == nil || ck.Value != "" || ck.MaxAge >= 0 {
		t.Fatalf("cookie should be cleared: %+v", ck)
	}
}

func TestAuthHandler_Logout_Anonymous(t *testing.T) {
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, p ports.Principal) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newContext(http.MethodPost, "/api/auth/logout", "")
	serve(c, h.Logout)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
