package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

// ArticleRepository implements ports.ArticleRepository on gorm.
type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) error {
	m := newArticleModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	var m articleModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	a := m.toDomain()
	return &a, nil
}

func (r *ArticleRepository) List(ctx context.Context, f ports.ArticleFilter) ([]domain.Article, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	var models []articleModel
	err := r.filtered(ctx, f).
		Order(articleOrder(f)).
		Offset(f.Offset()).
		Limit(f.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	return articlesToDomain(models), total, nil
}

func (r *ArticleRepository) Latest(ctx context.Context, limit int) ([]domain.Article, error) {
	var models []articleModel
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("published_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("latest articles: %w", err)
	}
	return articlesToDomain(models), nil
}

// editableColumns are written by Update. Counters are not.
var editableColumns = []string{
	"title", "description", "content",
	"title_fold", "description_fold", "content_fold",
	"image", "published",
	"published_at", "links", "tags", "updated_at",
}

func (r *ArticleRepository) Update(ctx context.Context, a *domain.Article) error {
	m := newArticleModel(a)
	res := r.db.WithContext(ctx).
		Model(&articleModel{}).
		Where("id = ?", a.ID).
		Select(editableColumns).
		Updates(&m)
	if res.Error != nil {
		return fmt.Errorf("update article: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// Delete removes the article and its comments in one transaction.
func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&commentModel{}).Error; err != nil {
			return fmt.Errorf("delete article comments: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&articleModel{})
		if res.Error != nil {
			return fmt.Errorf("delete article: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrArticleNotFound
		}
		return nil
	})
}

func (r *ArticleRepository) IncrementViews(ctx context.Context, id string) error {
	return r.increment(ctx, id, "views")
}

func (r *ArticleRepository) IncrementLikes(ctx context.Context, id string) error {
	return r.increment(ctx, id, "likes")
}

func (r *ArticleRepository) increment(ctx context.Context, id, column string) error {
	res := r.db.WithContext(ctx).
		Model(&articleModel{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment article %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// filtered returns a fresh query scoped to the filter's predicates.
func (r *ArticleRepository) filtered(ctx context.Context, f ports.ArticleFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&articleModel{})
	if f.AuthorID != "" {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.OnlyPublished {
		q = q.Where("published = ?", true)
	}
	if f.Tag != "" {
		q = q.Where("EXISTS (SELECT 1 FROM json_each(articles.tags) WHERE json_each.value = ?)", f.Tag)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where(
			`(title_fold LIKE ? ESCAPE '\' OR description_fold LIKE ? ESCAPE '\' OR content_fold LIKE ? ESCAPE '\')`,
			p, p, p,
		)
	}
	return q
}

var articleSortColumns = map[string]string{
	domain.SortCreatedAt:   "created_at",
	domain.SortUpdatedAt:   "updated_at",
	domain.SortPublishedAt: "published_at",
	domain.SortTitle:       "title",
	domain.SortViews:       "views",
	domain.SortLikes:       "likes",
}

func articleOrder(f ports.ArticleFilter) clause.OrderBy {
	col, ok := articleSortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	desc := f.SortOrder != domain.SortAsc
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: col}, Desc: desc},
		{Column: clause.Column{Name: "id"}, Desc: desc},
	}}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(fold(s)) + "%"
}
