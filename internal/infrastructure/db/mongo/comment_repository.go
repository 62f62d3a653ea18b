package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio/blog-api/internal/core/domain"
)

type commentDoc struct {
	ID        string    `bson:"_id"`
	Content   string    `bson:"content"`
	Email     string    `bson:"email"`
	Name      string    `bson:"name,omitempty"`
	ArticleID string    `bson:"article_id,omitempty"`
	ProjectID string    `bson:"project_id,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// CommentRepository implements ports.CommentRepository using MongoDB.
type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection(collectionComments)}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := commentDoc{
		ID:        c.ID,
		Content:   c.Content,
		Email:     c.Email,
		Name:      c.Name,
		ArticleID: c.ArticleID,
		ProjectID: c.ProjectID,
		CreatedAt: c.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"article_id": articleID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	out := make([]domain.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Comment{
			ID:        d.ID,
			Content:   d.Content,
			Email:     d.Email,
			Name:      d.Name,
			ArticleID: d.ArticleID,
			ProjectID: d.ProjectID,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return out, nil
}
