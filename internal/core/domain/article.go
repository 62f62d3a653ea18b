package domain

import (
	"time"

	"github.com/google/uuid"
)

// Minimum lengths, in characters, of an article's text once trimmed.
const (
	MinTitleLength       = 3
	MinDescriptionLength = 10
	MinContentLength     = 50
)

// Links maps a label (github, demo, docs, ...) to a URL.
type Links map[string]string

// Article is a blog post with a publish lifecycle and engagement counters.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Image       *string    `json:"image,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
	Links       Links      `json:"links,omitempty"`
	Likes       int64      `json:"likes"`
	Views       int64      `json:"views"`
	AuthorID    string     `json:"authorId"`
	Author      *Author    `json:"author,omitempty"`
	Tags        []string   `json:"tags"`
	Comments    []Comment  `json:"comments,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Author is the public projection of the user who wrote an article.
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// NewArticle builds a fresh article. Counters start at zero and PublishedAt
// is stamped only when the article is created already published.
func NewArticle(title, description, content, authorID string, published bool) *Article {
	now := time.Now().UTC()
	a := &Article{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Content:     content,
		Published:   published,
		AuthorID:    authorID,
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if published {
		a.PublishedAt = &now
	}
	return a
}

// Publish sets the published flag. The first false->true transition stamps
// PublishedAt; later toggles leave it untouched.
func (a *Article) Publish(published bool, at time.Time) {
	a.Published = published
	if published && a.PublishedAt == nil {
		t := at.UTC()
		a.PublishedAt = &t
	}
}
