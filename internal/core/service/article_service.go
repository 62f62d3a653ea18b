package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

type ArticleService struct {
	repo     ports.ArticleRepository
	comments ports.CommentRepository
	users    ports.UserRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewArticleService(repo ports.ArticleRepository, comments ports.CommentRepository, users ports.UserRepository, logger zerolog.Logger) *ArticleService {
	return &ArticleService{
		repo:     repo,
		comments: comments,
		users:    users,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateArticle validates the trimmed text fields and stores a new article
// owned by authorID.
func (s *ArticleService) CreateArticle(ctx context.Context, input ports.CreateArticleInput, authorID string) (*domain.Article, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	content := strings.TrimSpace(input.Content)

	if err := checkLength("title", title, domain.MinTitleLength); err != nil {
		return nil, err
	}
	if err := checkLength("description", description, domain.MinDescriptionLength); err != nil {
		return nil, err
	}
	if err := checkLength("content", content, domain.MinContentLength); err != nil {
		return nil, err
	}
	if authorID == "" {
		return nil, domain.NewValidationError("authorId", "author is required")
	}

	article := domain.NewArticle(title, description, content, authorID, input.Published)
	article.Image = input.Image
	article.Links = input.Links
	article.Tags = normalizeTags(input.Tags)

	if err := s.repo.Create(ctx, article); err != nil {
		s.logger.Error().Err(err).Str("author_id", authorID).Msg("failed to create article")
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.logger.Info().
		Str("article_id", article.ID).
		Str("author_id", authorID).
		Bool("published", article.Published).
		Msg("article created")

	return article, nil
}

// GetArticle loads the article with its author and comments. Reading a
// published article counts one view.
func (s *ArticleService) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	if id == "" {
		return nil, domain.ErrArticleNotFound
	}

	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: list comments: %w", err)
	}
	article.Comments = comments

	if author, err := s.users.FindByID(ctx, article.AuthorID); err == nil {
		article.Author = &domain.Author{ID: author.ID, Name: author.Name, Email: author.Email, Image: author.Image}
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Warn().Err(err).Str("article_id", id).Msg("author lookup failed")
	}

	if article.Published {
		if err := s.repo.IncrementViews(ctx, id); err != nil {
			return nil, fmt.Errorf("get article: count view: %w", err)
		}
		article.Views++
	}

	return article, nil
}

func (s *ArticleService) ArticleForEdit(ctx context.Context, id, currentUserID string) (*domain.Article, error) {
	return s.ownedArticle(ctx, id, currentUserID)
}

// UpdateArticle applies a partial update on behalf of the article's author.
func (s *ArticleService) UpdateArticle(ctx context.Context, id string, input ports.UpdateArticleInput, currentUserID string) (*domain.Article, error) {
	article, err := s.ownedArticle(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.Title.Set {
		v := strings.TrimSpace(input.Title.Value)
		if err := checkLength("title", v, domain.MinTitleLength); err != nil {
			return nil, err
		}
		article.Title = v
	}
	if input.Description.Set {
		v := strings.TrimSpace(input.Description.Value)
		if err := checkLength("description", v, domain.MinDescriptionLength); err != nil {
			return nil, err
		}
		article.Description = v
	}
	if input.Content.Set {
		v := strings.TrimSpace(input.Content.Value)
		if err := checkLength("content", v, domain.MinContentLength); err != nil {
			return nil, err
		}
		article.Content = v
	}

	if input.Image.Set {
		if input.Image.Null {
			article.Image = nil
		} else {
			img := input.Image.Value
			article.Image = &img
		}
	}
	if input.Links.Set {
		article.Links = input.Links.Value // nil when null
	}
	if input.Tags.Set {
		article.Tags = normalizeTags(input.Tags.Value)
	}

	now := s.now()
	if input.Published.Present() {
		article.Publish(input.Published.Value, now)
	}
	article.UpdatedAt = now

	if err := s.repo.Update(ctx, article); err != nil {
		s.logger.Error().Err(err).Str("article_id", id).Msg("failed to update article")
		return nil, fmt.Errorf("update article: %w", err)
	}

	s.logger.Info().Str("article_id", id).Str("user_id", currentUserID).Msg("article updated")
	return article, nil
}

// DeleteArticle removes an article (and its comments) on behalf of its author.
func (s *ArticleService) DeleteArticle(ctx context.Context, id, currentUserID string) error {
	if _, err := s.ownedArticle(ctx, id, currentUserID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("article_id", id).Msg("failed to delete article")
		return fmt.Errorf("delete article: %w", err)
	}

	s.logger.Info().Str("article_id", id).Str("user_id", currentUserID).Msg("article deleted")
	return nil
}

// ListArticles serves the public listing. A tag switches to the "by tag"
// variant, which ignores the search term and only returns published articles.
func (s *ArticleService) ListArticles(ctx context.Context, input ports.ListArticlesInput) (*domain.ArticlePage, error) {
	filter, err := buildFilter(input)
	if err != nil {
		return nil, err
	}
	if filter.Tag != "" {
		filter.Search = ""
		filter.OnlyPublished = true
	}
	return s.page(ctx, filter)
}

// ListByAuthor lists every article of one author, drafts included.
func (s *ArticleService) ListByAuthor(ctx context.Context, authorID string, input ports.ListArticlesInput) (*domain.ArticlePage, error) {
	if authorID == "" {
		return nil, domain.NewValidationError("authorId", "author is required")
	}
	filter, err := buildFilter(input)
	if err != nil {
		return nil, err
	}
	filter.AuthorID = authorID
	filter.Tag = ""
	filter.OnlyPublished = false
	return s.page(ctx, filter)
}

func (s *ArticleService) LatestArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > domain.MaxLimit {
		limit = domain.MaxLimit
	}
	articles, err := s.repo.Latest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("latest articles: %w", err)
	}
	return articles, nil
}

func (s *ArticleService) LikeArticle(ctx context.Context, id string) error {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !article.Published {
		return domain.NewNotPublishedError("like")
	}
	return s.repo.IncrementLikes(ctx, id)
}

func (s *ArticleService) ownedArticle(ctx context.Context, id, currentUserID string) (*domain.Article, error) {
	if id == "" {
		return nil, domain.ErrArticleNotFound
	}
	if currentUserID == "" {
		return nil, domain.ErrUnauthenticated
	}

	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != currentUserID {
		return nil, domain.ErrForbidden
	}
	return article, nil
}

func (s *ArticleService) page(ctx context.Context, filter ports.ArticleFilter) (*domain.ArticlePage, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if items == nil {
		items = []domain.Article{}
	}
	return &domain.ArticlePage{
		Data:       items,
		Pagination: domain.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

// buildFilter applies the listing defaults and rejects unknown sort options.
func buildFilter(in ports.ListArticlesInput) (ports.ArticleFilter, error) {
	f := ports.ArticleFilter{
		Tag:           strings.TrimSpace(in.Tag),
		Search:        strings.TrimSpace(in.Search),
		OnlyPublished: in.OnlyPublished,
		SortBy:        in.SortBy,
		SortOrder:     in.SortOrder,
		Page:          in.Page,
		Limit:         in.Limit,
	}

	if f.Page < 1 {
		f.Page = domain.DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = domain.DefaultLimit
	}
	if f.Limit > domain.MaxLimit {
		f.Limit = domain.MaxLimit
	}
	if f.SortBy == "" {
		f.SortBy = domain.SortCreatedAt
	}
	if !slices.Contains(domain.SortFields, f.SortBy) {
		return f, domain.NewValidationError("sortBy", "sortBy must be one of: "+strings.Join(domain.SortFields, " "))
	}
	switch f.SortOrder {
	case "":
		f.SortOrder = domain.SortDesc
	case domain.SortAsc, domain.SortDesc:
	default:
		return f, domain.NewValidationError("sortOrder", "sortOrder must be one of: asc desc")
	}

	return f, nil
}

// checkLength rejects an already trimmed value shorter than minLen characters.
func checkLength(field, value string, minLen int) error {
	switch {
	case value == "":
		return domain.NewValidationError(field, field+" is required")
	case utf8.RuneCountInString(value) < minLen:
		return domain.NewValidationError(field, fmt.Sprintf("%s must be at least %d characters", field, minLen))
	}
	return nil
}

// normalizeTags trims tags and drops empty and repeated entries.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
