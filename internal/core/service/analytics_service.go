package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

const mostViewedLimit = 5

type analyticsService struct {
	articles ports.ArticleRepository
	projects ports.ProjectRepository
	users    ports.UserRepository
	stats    ports.StatsRepository
	log      zerolog.Logger
}

// NewAnalyticsService returns an AnalyticsService implementation.
func NewAnalyticsService(
	articles ports.ArticleRepository,
	projects ports.ProjectRepository,
	users ports.UserRepository,
	stats ports.StatsRepository,
	log zerolog.Logger,
) ports.AnalyticsService {
	return &analyticsService{
		articles: articles,
		projects: projects,
		users:    users,
		stats:    stats,
		log:      log,
	}
}

// TrackView counts one view and reports whether it did. Views on
// unpublished articles are ignored so that drafts never accumulate counts.
func (s *analyticsService) TrackView(ctx context.Context, kind domain.ContentType, id string) (bool, error) {
	switch kind {
	case domain.ContentArticle:
		article, err := s.articles.FindByID(ctx, id)
		if err != nil {
			return false, err
		}
		if !article.Published {
			s.log.Debug().Str("article_id", id).Msg("view on unpublished article ignored")
			return false, nil
		}
		if err := s.articles.IncrementViews(ctx, id); err != nil {
			return false, err
		}
		return true, nil
	case domain.ContentProject:
		if err := s.projects.IncrementViews(ctx, id); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, domain.NewValidationError("type", "type must be one of: article project")
	}
}

// TrackLike counts one like. Articles must be published.
func (s *analyticsService) TrackLike(ctx context.Context, kind domain.ContentType, id string) error {
	switch kind {
	case domain.ContentArticle:
		article, err := s.articles.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !article.Published {
			return domain.NewNotPublishedError("like")
		}
		return s.articles.IncrementLikes(ctx, id)
	case domain.ContentProject:
		return s.projects.IncrementLikes(ctx, id)
	default:
		return domain.NewValidationError("type", "type must be one of: article project")
	}
}

func (s *analyticsService) Dashboard(ctx context.Context) (*ports.Dashboard, error) {
	stats, err := s.stats.SiteStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: stats: %w", err)
	}
	articles, err := s.stats.MostViewedArticles(ctx, mostViewedLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: most viewed articles: %w", err)
	}
	projects, err := s.stats.MostViewedProjects(ctx, mostViewedLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: most viewed projects: %w", err)
	}

	return &ports.Dashboard{
		Stats:              *stats,
		MostViewedArticles: articles,
		MostViewedProjects: projects,
	}, nil
}

func (s *analyticsService) Visitors(ctx context.Context) ([]domain.Visitor, error) {
	visitors, err := s.users.ListVisitors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	if visitors == nil {
		visitors = []domain.Visitor{}
	}
	return visitors, nil
}
