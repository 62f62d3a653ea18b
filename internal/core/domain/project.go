package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project is a portfolio entry. Only its counters take part in analytics.
type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       *string    `json:"image,omitempty"`
	Links       Links      `json:"links,omitempty"`
	Tags        []string   `json:"tags"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Likes       int64      `json:"likes"`
	Views       int64      `json:"views"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func NewProject(title, description string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ContentType names the kinds of content that carry view/like counters.
type ContentType string

const (
	ContentArticle ContentType = "article"
	ContentProject ContentType = "project"
)
