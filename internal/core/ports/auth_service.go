package ports

import (
	"context"
	"time"

	"github.com/portfolio/blog-api/internal/core/domain"
)

// Session is the outcome of a successful sign-in.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User    // set for admin sessions
	Visitor   *domain.Visitor // set for visitor sessions
}

// Principal is the identity carried by a verified session token.
type Principal struct {
	ID        string
	Email     string
	Name      string
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

type AuthService interface {
	RegisterAdmin(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// RegisterVisitor is idempotent on email and always returns a session.
	RegisterVisitor(ctx context.Context, email string) (*Session, error)
	Logout(ctx context.Context, p Principal) error
}
