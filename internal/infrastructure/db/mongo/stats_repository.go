package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio/blog-api/internal/core/domain"
)

// StatsRepository implements ports.StatsRepository with counts and
// aggregation pipelines over the content collections.
type StatsRepository struct {
	db       *mongo.Database
	articles *ArticleRepository
	projects *ProjectRepository
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{
		db:       db,
		articles: NewArticleRepository(db),
		projects: NewProjectRepository(db),
	}
}

type engagementTotals struct {
	Views int64 `bson:"views"`
	Likes int64 `bson:"likes"`
}

func (r *StatsRepository) SiteStats(ctx context.Context) (*domain.SiteStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var stats domain.SiteStats
	counts := []struct {
		coll string
		dst  *int64
	}{
		{collectionArticles, &stats.Articles},
		{collectionProjects, &stats.Projects},
		{collectionVisitors, &stats.Visitors},
		{collectionComments, &stats.Comments},
	}
	for _, c := range counts {
		n, err := r.db.Collection(c.coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c.coll, err)
		}
		*c.dst = n
	}

	for _, coll := range []string{collectionArticles, collectionProjects} {
		totals, err := r.engagement(ctx, coll)
		if err != nil {
			return nil, err
		}
		stats.TotalViews += totals.Views
		stats.TotalLikes += totals.Likes
	}
	return &stats, nil
}

func (r *StatsRepository) engagement(ctx context.Context, coll string) (engagementTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "views", Value: bson.D{{Key: "$sum", Value: "$views"}}},
			{Key: "likes", Value: bson.D{{Key: "$sum", Value: "$likes"}}},
		}}},
	}

	cur, err := r.db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return engagementTotals{}, fmt.Errorf("aggregate %s: %w", coll, err)
	}
	defer cur.Close(ctx)

	var rows []engagementTotals
	if err := cur.All(ctx, &rows); err != nil {
		return engagementTotals{}, fmt.Errorf("decode %s totals: %w", coll, err)
	}
	if len(rows) == 0 {
		return engagementTotals{}, nil
	}
	return rows[0], nil
}

func (r *StatsRepository) MostViewedArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.articles.find(ctx, bson.M{"published": true}, opts)
}

func (r *StatsRepository) MostViewedProjects(ctx context.Context, limit int) ([]domain.Project, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.projects.find(ctx, opts)
}
