package ports

import (
	"context"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/pkg/patch"
)

// CreateArticleInput carries all data needed to create an article.
type CreateArticleInput struct {
	Title       string
	Description string
	Content     string
	Image       *string
	Published   bool
	Links       domain.Links
	Tags        []string
}

// UpdateArticleInput is a partial update. Absent fields are skipped; a null
// Image or Links clears the stored value.
type UpdateArticleInput struct {
	Title       patch.Field[string]
	Description patch.Field[string]
	Content     patch.Field[string]
	Image       patch.Field[string]
	Published   patch.Field[bool]
	Links       patch.Field[domain.Links]
	Tags        patch.Field[[]string]
}

// ListArticlesInput carries the parameters of the list endpoints. Zero
// values are replaced by the listing defaults.
type ListArticlesInput struct {
	Page          int
	Limit         int
	Search        string
	Tag           string
	SortBy        string
	SortOrder     domain.SortOrder
	OnlyPublished bool
}

// ArticleService defines the article use cases.
type ArticleService interface {
	CreateArticle(ctx context.Context, input CreateArticleInput, authorID string) (*domain.Article, error)
	// GetArticle returns the article with its comments and counts a view
	// when the article is published.
	GetArticle(ctx context.Context, id string) (*domain.Article, error)
	// ArticleForEdit returns one of currentUserID's articles, drafts
	// included, without counting a view.
	ArticleForEdit(ctx context.Context, id, currentUserID string) (*domain.Article, error)
	UpdateArticle(ctx context.Context, id string, input UpdateArticleInput, currentUserID string) (*domain.Article, error)
	DeleteArticle(ctx context.Context, id, currentUserID string) error
	ListArticles(ctx context.Context, input ListArticlesInput) (*domain.ArticlePage, error)
	ListByAuthor(ctx context.Context, authorID string, input ListArticlesInput) (*domain.ArticlePage, error)
	LatestArticles(ctx context.Context, limit int) ([]domain.Article, error)
	// LikeArticle requires the article to be published.
	LikeArticle(ctx context.Context, id string) error
}

// AddCommentInput carries a new comment on an article.
type AddCommentInput struct {
	ArticleID string
	Content   string
	Name      string
	Email     string
}

type CommentService interface {
	AddArticleComment(ctx context.Context, input AddCommentInput) (*domain.Comment, error)
	ListArticleComments(ctx context.Context, articleID string) ([]domain.Comment, error)
}

// CreateProjectInput carries a new portfolio project.
type CreateProjectInput struct {
	Title       string
	Description string
	Image       *string
	Links       domain.Links
	Tags        []string
}

type ProjectService interface {
	CreateProject(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

// Dashboard is the admin overview.
type Dashboard struct {
	Stats              domain.SiteStats
	MostViewedArticles []domain.Article
	MostViewedProjects []domain.Project
}

// AnalyticsService tracks engagement and builds the admin dashboard.
type AnalyticsService interface {
	// TrackView reports whether the view was counted. Views on drafts are not.
	TrackView(ctx context.Context, kind domain.ContentType, id string) (bool, error)
	TrackLike(ctx context.Context, kind domain.ContentType, id string) error
	Dashboard(ctx context.Context) (*Dashboard, error)
	Visitors(ctx context.Context) ([]domain.Visitor, error)
}
