package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

// SessionCookie is the HttpOnly cookie that carries the session token for
// browser clients.
const SessionCookie = "session_token"

var errNoToken = errors.New("no session token")

// SetSessionCookie stores token in the session cookie until expires.
func SetSessionCookie(c echo.Context, token string, expires time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Auth validates the session token and injects its claims into the context.
// The token is read from the Authorization header first, then from the
// session cookie. Revoked tokens are rejected.
func Auth(jwtSecret string, tokens ports.TokenStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := authenticate(c, jwtSecret, tokens)
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, errNoToken):
				return domain.ErrUnauthenticated
			default:
				return err
			}
		}
	}
}

// OptionalAuth injects the claims of a valid session when there is one and
// otherwise lets the request through anonymously. Used by the server-rendered
// pages.
func OptionalAuth(jwtSecret string, tokens ports.TokenStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_ = authenticate(c, jwtSecret, tokens)
			return next(c)
		}
	}
}

func authenticate(c echo.Context, jwtSecret string, tokens ports.TokenStore) error {
	raw, err := tokenFromRequest(c)
	if err != nil {
		return err
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.ErrUnauthenticated
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)
	if sub == "" || jti == "" || !domain.Role(role).Valid() {
		return domain.ErrUnauthenticated
	}

	revoked, err := tokens.IsRevoked(c.Request().Context(), jti)
	if err != nil {
		return fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return domain.ErrUnauthenticated
	}

	c.Set("user_id", sub)
	c.Set("email", claims["email"])
	c.Set("name", claims["name"])
	c.Set("role", role)
	c.Set("jti", jti)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.Set("token_exp", exp.Time)
	} else {
		c.Set("token_exp", time.Time{})
	}
	return nil
}

func tokenFromRequest(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return "", domain.ErrUnauthenticated
		}
		return parts[1], nil
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", errNoToken
}

// CurrentPrincipal rebuilds the caller identity injected by Auth or
// OptionalAuth. ok is false for anonymous requests.
func CurrentPrincipal(c echo.Context) (p ports.Principal, ok bool) {
	p.ID, _ = c.Get("user_id").(string)
	p.Email, _ = c.Get("email").(string)
	p.Name, _ = c.Get("name").(string)
	p.TokenID, _ = c.Get("jti").(string)
	p.ExpiresAt, _ = c.Get("token_exp").(time.Time)
	role, _ := c.Get("role").(string)
	p.Role = domain.Role(role)

	if p.ID == "" || !p.Role.Valid() {
		return ports.Principal{}, false
	}
	return p, true
}
