package ports

import (
	"context"
	"time"

	"github.com/portfolio/blog-api/internal/core/domain"
)

// UserRepository defines persistence for admin accounts and visitors.
// Visitors live in their own identity space: the same email may exist as
// both a user and a visitor.
type UserRepository interface {
	// Create returns domain.ErrEmailTaken when the email is already used.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	FindVisitorByEmail(ctx context.Context, email string) (*domain.Visitor, error)
	// CreateVisitor returns domain.ErrEmailTaken on a concurrent duplicate.
	CreateVisitor(ctx context.Context, visitor *domain.Visitor) error
	ListVisitors(ctx context.Context) ([]domain.Visitor, error)
}

// TokenStore remembers revoked session tokens until they expire.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
