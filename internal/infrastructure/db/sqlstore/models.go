package sqlstore

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/portfolio/blog-api/internal/core/domain"
)

// Timestamps come from the domain, so gorm's auto time tracking is off.

type userModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string
	Image        string
	Role         string `gorm:"not null;index"`
	Social       datatypes.JSON
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (userModel) TableName() string { return "users" }

type visitorModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Email     string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (visitorModel) TableName() string { return "visitors" }

// articleModel keeps lowercased copies of the searchable text; SQLite's
// LOWER only folds ASCII letters.
type articleModel struct {
	ID              string `gorm:"primaryKey;size:36"`
	Title           string `gorm:"not null"`
	Description     string `gorm:"not null"`
	Content         string `gorm:"type:text;not null"`
	TitleFold       string `gorm:"not null;default:''"`
	DescriptionFold string `gorm:"not null;default:''"`
	ContentFold     string `gorm:"type:text;not null;default:''"`
	Image           *string
	Published       bool       `gorm:"not null;index"`
	PublishedAt     *time.Time `gorm:"index"`
	Links           datatypes.JSON
	Likes           int64  `gorm:"not null"`
	Views           int64  `gorm:"not null;index"`
	AuthorID        string `gorm:"size:36;not null;index"`
	Tags            datatypes.JSON
	CreatedAt       time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime:false"`
}

func (articleModel) TableName() string { return "articles" }

type commentModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	Content   string `gorm:"type:text;not null"`
	Email     string `gorm:"not null"`
	Name      string
	ArticleID string    `gorm:"size:36;index"`
	ProjectID string    `gorm:"size:36;index"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;index"`
}

func (commentModel) TableName() string { return "comments" }

type projectModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text;not null"`
	Image       *string
	Links       datatypes.JSON
	Tags        datatypes.JSON
	StartDate   *time.Time
	EndDate     *time.Time
	Likes       int64     `gorm:"not null"`
	Views       int64     `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

func (projectModel) TableName() string { return "projects" }

func toJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return nil
	}
	return datatypes.JSON(b)
}

func tagsJSON(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	return toJSON(tags)
}

func linksJSON(links domain.Links) datatypes.JSON {
	if len(links) == 0 {
		return nil
	}
	return toJSON(links)
}

func decodeTags(raw datatypes.JSON) []string {
	tags := []string{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &tags)
	}
	return tags
}

func decodeLinks(raw datatypes.JSON) domain.Links {
	if len(raw) == 0 {
		return nil
	}
	var links domain.Links
	_ = json.Unmarshal(raw, &links)
	return links
}

func fold(s string) string {
	return strings.ToLower(s)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func newArticleModel(a *domain.Article) articleModel {
	return articleModel{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		Content:         a.Content,
		TitleFold:       fold(a.Title),
		DescriptionFold: fold(a.Description),
		ContentFold:     fold(a.Content),
		Image:           a.Image,
		Published:       a.Published,
		PublishedAt:     a.PublishedAt,
		Links:           linksJSON(a.Links),
		Likes:           a.Likes,
		Views:           a.Views,
		AuthorID:        a.AuthorID,
		Tags:            tagsJSON(a.Tags),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (m articleModel) toDomain() domain.Article {
	return domain.Article{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Content:     m.Content,
		Image:       m.Image,
		Published:   m.Published,
		PublishedAt: utcPtr(m.PublishedAt),
		Links:       decodeLinks(m.Links),
		Likes:       m.Likes,
		Views:       m.Views,
		AuthorID:    m.AuthorID,
		Tags:        decodeTags(m.Tags),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func articlesToDomain(models []articleModel) []domain.Article {
	out := make([]domain.Article, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out
}

func (m projectModel) toDomain() domain.Project {
	return domain.Project{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Image:       m.Image,
		Links:       decodeLinks(m.Links),
		Tags:        decodeTags(m.Tags),
		StartDate:   utcPtr(m.StartDate),
		EndDate:     utcPtr(m.EndDate),
		Likes:       m.Likes,
		Views:       m.Views,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func projectsToDomain(models []projectModel) []domain.Project {
	out := make([]domain.Project, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out
}

func (m userModel) toDomain() *domain.User {
	u := &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Image:        m.Image,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
	if len(m.Social) > 0 {
		var s domain.SocialLinks
		if json.Unmarshal(m.Social, &s) == nil {
			u.Social = &s
		}
	}
	return u
}

func (m visitorModel) toDomain() domain.Visitor {
	return domain.Visitor{
		ID:        m.ID,
		Email:     m.Email,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}
