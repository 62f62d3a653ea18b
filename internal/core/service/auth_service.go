package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

// AuthService implements admin registration and login plus visitor sign-in.
type AuthService struct {
	repo      ports.UserRepository
	tokens    ports.TokenStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, tokens: tokens, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// RegisterAdmin creates an ADMIN account with a bcrypt-hashed password.
func (s *AuthService) RegisterAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email", "email is required")
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "password is required")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := domain.NewAdmin(name, email, string(hash))
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("admin registered")
	return user, nil
}

// Login authenticates an admin. Unknown emails, non-admin accounts and wrong
// passwords all produce domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if user.Role != domain.RoleAdmin || user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.generateToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, err
	}

	return &ports.Session{Token: token, ExpiresAt: exp, User: user}, nil
}

// RegisterVisitor records the visitor on first sight and returns a visitor
// session. Repeated calls with the same email reuse the stored visitor.
func (s *AuthService) RegisterVisitor(ctx context.Context, email string) (*ports.Session, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("email", "email is required")
	}

	visitor, err := s.repo.FindVisitorByEmail(ctx, email)
	if errors.Is(err, domain.ErrVisitorNotFound) {
		visitor = domain.NewVisitor(email)
		err = s.repo.CreateVisitor(ctx, visitor)
		if errors.Is(err, domain.ErrEmailTaken) {
			// lost a race with a concurrent registration of the same email
			visitor, err = s.repo.FindVisitorByEmail(ctx, email)
		} else if err == nil {
			s.logger.Info().Str("visitor_id", visitor.ID).Msg("visitor registered")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("register visitor: %w", err)
	}

	token, exp, err := s.generateToken(visitor.ID, visitor.Email, "", domain.RoleVisitor)
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: token, ExpiresAt: exp, Visitor: visitor}, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, p ports.Principal) error {
	if p.TokenID == "" {
		return domain.ErrUnauthenticated
	}
	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.tokens.Revoke(ctx, p.TokenID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info().Str("user_id", p.ID).Msg("session revoked")
	return nil
}

func (s *AuthService) generateToken(subject, email, name string, role domain.Role) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"name":  name,
		"role":  string(role),
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
