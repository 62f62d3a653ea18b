package ports

import (
	"context"

	"github.com/portfolio/blog-api/internal/core/domain"
)

// ArticleFilter carries all query parameters for listing articles.
// The service layer fills in defaults before the repository sees it.
type ArticleFilter struct {
	AuthorID      string           // optional: only articles written by this user
	Tag           string           // optional: tag set must contain Tag
	Search        string           // optional: case-insensitive match on title, description or content
	OnlyPublished bool             // published = true
	SortBy        string           // one of domain.SortFields
	SortOrder     domain.SortOrder // asc | desc
	Page          int              // 1-based
	Limit         int              // rows per page, at most domain.MaxLimit
}

// Offset is the number of rows to skip for the requested page.
func (f ArticleFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// ArticleRepository defines persistence operations for articles.
type ArticleRepository interface {
	Create(ctx context.Context, a *domain.Article) error
	// FindByID returns domain.ErrArticleNotFound when no article has the id.
	FindByID(ctx context.Context, id string) (*domain.Article, error)
	// List returns a page of articles matching filter and the total count.
	List(ctx context.Context, filter ArticleFilter) ([]domain.Article, int64, error)
	// Latest returns the most recently published articles.
	Latest(ctx context.Context, limit int) ([]domain.Article, error)
	// Update persists the editable fields of a. Counters are never written.
	Update(ctx context.Context, a *domain.Article) error
	// Delete removes the article and every comment attached to it.
	Delete(ctx context.Context, id string) error
	// IncrementViews and IncrementLikes add one atomically in the datastore.
	IncrementViews(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
}

// CommentRepository persists comments on articles.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	// ListByArticle returns the article's comments, newest first.
	ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error)
}

// ProjectRepository persists portfolio projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	IncrementViews(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
}

// StatsRepository computes dashboard aggregates.
type StatsRepository interface {
	SiteStats(ctx context.Context) (*domain.SiteStats, error)
	MostViewedArticles(ctx context.Context, limit int) ([]domain.Article, error)
	MostViewedProjects(ctx context.Context, limit int) ([]domain.Project, error)
}
