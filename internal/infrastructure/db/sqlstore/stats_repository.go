package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/portfolio/blog-api/internal/core/domain"
)

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type engagementTotals struct {
	Views int64
	Likes int64
}

func (r *StatsRepository) SiteStats(ctx context.Context) (*domain.SiteStats, error) {
	db := r.db.WithContext(ctx)
	var stats domain.SiteStats

	counts := []struct {
		model any
		dst   *int64
	}{
		{&articleModel{}, &stats.Articles},
		{&projectModel{}, &stats.Projects},
		{&visitorModel{}, &stats.Visitors},
		{&commentModel{}, &stats.Comments},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}

	for _, model := range []any{&articleModel{}, &projectModel{}} {
		var t engagementTotals
		err := db.Model(model).
			Select("COALESCE(SUM(views), 0) AS views, COALESCE(SUM(likes), 0) AS likes").
			Scan(&t).Error
		if err != nil {
			return nil, fmt.Errorf("sum engagement: %w", err)
		}
		stats.TotalViews += t.Views
		stats.TotalLikes += t.Likes
	}
	return &stats, nil
}

func (r *StatsRepository) MostViewedArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	var models []articleModel
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("views DESC, id ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("most viewed articles: %w", err)
	}
	return articlesToDomain(models), nil
}

func (r *StatsRepository) MostViewedProjects(ctx context.Context, limit int) ([]domain.Project, error) {
	var models []projectModel
	err := r.db.WithContext(ctx).Order("views DESC, id ASC").Limit(limit).Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("most viewed projects: %w", err)
	}
	return projectsToDomain(models), nil
}
