package domain

import (
	"time"

	"github.com/google/uuid"
)

const MinCommentLength = 3

// Comment belongs to exactly one parent: an article or a project.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	ArticleID string    `json:"articleId,omitempty"`
	ProjectID string    `json:"projectId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewArticleComment(articleID, content, email, name string) *Comment {
	return &Comment{
		ID:        uuid.NewString(),
		Content:   content,
		Email:     email,
		Name:      name,
		ArticleID: articleID,
		CreatedAt: time.Now().UTC(),
	}
}
