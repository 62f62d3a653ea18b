package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

type CommentService struct {
	articles ports.ArticleRepository
	repo     ports.CommentRepository
	logger   zerolog.Logger
}

func NewCommentService(articles ports.ArticleRepository, repo ports.CommentRepository, logger zerolog.Logger) *CommentService {
	return &CommentService{articles: articles, repo: repo, logger: logger}
}

// AddArticleComment attaches a comment to a published article.
func (s *CommentService) AddArticleComment(ctx context.Context, input ports.AddCommentInput) (*domain.Comment, error) {
	article, err := s.articles.FindByID(ctx, input.ArticleID)
	if err != nil {
		return nil, err
	}
	if !article.Published {
		return nil, domain.NewNotPublishedError("comment on")
	}

	content := strings.TrimSpace(input.Content)
	if utf8.RuneCountInString(content) < domain.MinCommentLength {
		return nil, domain.NewValidationError("content", fmt.Sprintf("content must be at least %d characters", domain.MinCommentLength))
	}
	if input.Email == "" {
		return nil, domain.ErrUnauthenticated
	}

	comment := domain.NewArticleComment(article.ID, content, input.Email, strings.TrimSpace(input.Name))
	if err := s.repo.Create(ctx, comment); err != nil {
		s.logger.Error().Err(err).Str("article_id", article.ID).Msg("failed to create comment")
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.Info().Str("article_id", article.ID).Str("comment_id", comment.ID).Msg("comment created")
	return comment, nil
}

func (s *CommentService) ListArticleComments(ctx context.Context, articleID string) ([]domain.Comment, error) {
	if _, err := s.articles.FindByID(ctx, articleID); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}
