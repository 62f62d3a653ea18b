package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

type articleDoc struct {
	ID          string            `bson:"_id"`
	Title       string            `bson:"title"`
	Description string            `bson:"description"`
	Content     string            `bson:"content"`
	Image       *string           `bson:"image"`
	Published   bool              `bson:"published"`
	PublishedAt *time.Time        `bson:"published_at"`
	Links       map[string]string `bson:"links,omitempty"`
	Likes       int64             `bson:"likes"`
	Views       int64             `bson:"views"`
	AuthorID    string            `bson:"author_id"`
	Tags        []string          `bson:"tags"`
	CreatedAt   time.Time         `bson:"created_at"`
	UpdatedAt   time.Time         `bson:"updated_at"`
}

func newArticleDoc(a *domain.Article) articleDoc {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return articleDoc{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		Image:       a.Image,
		Published:   a.Published,
		PublishedAt: a.PublishedAt,
		Links:       a.Links,
		Likes:       a.Likes,
		Views:       a.Views,
		AuthorID:    a.AuthorID,
		Tags:        tags,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (d articleDoc) toDomain() domain.Article {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	var publishedAt *time.Time
	if d.PublishedAt != nil {
		t := d.PublishedAt.UTC()
		publishedAt = &t
	}
	return domain.Article{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Content:     d.Content,
		Image:       d.Image,
		Published:   d.Published,
		PublishedAt: publishedAt,
		Links:       d.Links,
		Likes:       d.Likes,
		Views:       d.Views,
		AuthorID:    d.AuthorID,
		Tags:        tags,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// ArticleRepository implements ports.ArticleRepository using MongoDB.
type ArticleRepository struct {
	col      *mongo.Collection
	comments *mongo.Collection
}

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{
		col:      db.Collection(collectionArticles),
		comments: db.Collection(collectionComments),
	}
}

// Create inserts a new article document.
func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, newArticleDoc(a)); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc articleDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	a := doc.toDomain()
	return &a, nil
}

// List returns one page of articles matching the filter together with the
// total number of matches.
func (r *ArticleRepository) List(ctx context.Context, f ports.ArticleFilter) ([]domain.Article, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := articleQuery(f)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	opts := options.Find().
		SetSort(articleSort(f)).
		SetSkip(int64(f.Offset())).
		SetLimit(int64(f.Limit))

	items, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ArticleRepository) Latest(ctx context.Context, limit int) ([]domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"published": true}, opts)
}

// Update rewrites the editable fields only, so concurrent counter increments
// are never lost.
func (r *ArticleRepository) Update(ctx context.Context, a *domain.Article) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	update := bson.M{"$set": bson.M{
		"title":        a.Title,
		"description":  a.Description,
		"content":      a.Content,
		"image":        a.Image,
		"published":    a.Published,
		"published_at": a.PublishedAt,
		"links":        a.Links,
		"tags":         tags,
		"updated_at":   a.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": a.ID}, update)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// Delete removes the article's comments, then the article.
func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return deleteArticle(ctx, r.col, r.comments, id)
}

// deleter is the subset of *mongo.Collection used to delete an article.
type deleter interface {
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// deleteArticle drops comments before the article. A failure in between
// leaves the article in place for a retry, never orphaned comments.
func deleteArticle(ctx context.Context, articles, comments deleter, id string) error {
	if _, err := comments.DeleteMany(ctx, bson.M{"article_id": id}); err != nil {
		return fmt.Errorf("delete article comments: %w", err)
	}

	res, err := articles.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) IncrementViews(ctx context.Context, id string) error {
	return r.increment(ctx, id, "views")
}

func (r *ArticleRepository) IncrementLikes(ctx context.Context, id string) error {
	return r.increment(ctx, id, "likes")
}

func (r *ArticleRepository) increment(ctx context.Context, id, field string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: 1}})
	if err != nil {
		return fmt.Errorf("increment article %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]domain.Article, error) {
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []articleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}

	out := make([]domain.Article, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// articleQuery translates a listing filter into a MongoDB query document.
func articleQuery(f ports.ArticleFilter) bson.M {
	query := bson.M{}
	if f.AuthorID != "" {
		query["author_id"] = f.AuthorID
	}
	if f.OnlyPublished {
		query["published"] = true
	}
	if f.Tag != "" {
		query["tags"] = f.Tag
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"content": re},
		}
	}
	return query
}

var articleSortFields = map[string]string{
	domain.SortCreatedAt:   "created_at",
	domain.SortUpdatedAt:   "updated_at",
	domain.SortPublishedAt: "published_at",
	domain.SortTitle:       "title",
	domain.SortViews:       "views",
	domain.SortLikes:       "likes",
}

// articleSort orders by the requested field with _id as a tie-breaker so that
// pages never overlap.
func articleSort(f ports.ArticleFilter) bson.D {
	field, ok := articleSortFields[f.SortBy]
	if !ok {
		field = "created_at"
	}
	dir := -1
	if f.SortOrder == domain.SortAsc {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}
