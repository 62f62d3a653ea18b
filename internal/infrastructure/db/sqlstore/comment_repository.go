package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/portfolio/blog-api/internal/core/domain"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	m := commentModel{
		ID:        c.ID,
		Content:   c.Content,
		Email:     c.Email,
		Name:      c.Name,
		ArticleID: c.ArticleID,
		ProjectID: c.ProjectID,
		CreatedAt: c.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error) {
	var models []commentModel
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	out := make([]domain.Comment, 0, len(models))
	for _, m := range models {
		out = append(out, domain.Comment{
			ID:        m.ID,
			Content:   m.Content,
			Email:     m.Email,
			Name:      m.Name,
			ArticleID: m.ArticleID,
			ProjectID: m.ProjectID,
			CreatedAt: m.CreatedAt.UTC(),
		})
	}
	return out, nil
}
