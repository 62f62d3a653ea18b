package handler

import (
	"time"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/pkg/patch"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// --- Articles ---

type listArticlesRequest struct {
	Page          int    `query:"page"          validate:"omitempty,min=1"`
	Limit         int    `query:"limit"         validate:"omitempty,min=1,max=100"`
	Search        string `query:"search"`
	SortBy        string `query:"sortBy"        validate:"omitempty,oneof=createdAt updatedAt publishedAt title views likes"`
	SortOrder     string `query:"sortOrder"     validate:"omitempty,oneof=asc desc"`
	Tag           string `query:"tag"`
	OnlyPublished string `query:"onlyPublished" validate:"omitempty,oneof=true false"`
}

type createArticleRequest struct {
	Title       string       `json:"title"       validate:"required,min=3"`
	Description string       `json:"description" validate:"required,min=10"`
	Content     string       `json:"content"     validate:"required,min=50"`
	Image       *string      `json:"image"       validate:"omitempty,url"`
	Published   bool         `json:"published"`
	Links       domain.Links `json:"links"       validate:"omitempty,dive,url"`
	Tags        []string     `json:"tags"        validate:"omitempty,dive,max=50"`
}

// updateArticleRequest distinguishes absent keys from explicit nulls.
type updateArticleRequest struct {
	Title       patch.Field[string]       `json:"title"       validate:"omitempty,min=3"`
	Description patch.Field[string]       `json:"description" validate:"omitempty,min=10"`
	Content     patch.Field[string]       `json:"content"     validate:"omitempty,min=50"`
	Image       patch.Field[string]       `json:"image"       validate:"omitempty,url"`
	Published   patch.Field[bool]         `json:"published"`
	Links       patch.Field[domain.Links] `json:"links"`
	Tags        patch.Field[[]string]     `json:"tags"`
}

// linksPayload lets the validator check link URLs of a partial update.
type linksPayload struct {
	Links domain.Links `json:"links" validate:"dive,url"`
}

type latestArticlesRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// --- Comments ---

type createCommentRequest struct {
	Content string `json:"content" validate:"required,min=3,max=2000"`
	Name    string `json:"name"    validate:"omitempty,max=100"`
}

// --- Projects ---

type createProjectRequest struct {
	Title       string       `json:"title"       validate:"required,min=3"`
	Description string       `json:"description" validate:"required,min=10"`
	Image       *string      `json:"image"       validate:"omitempty,url"`
	Links       domain.Links `json:"links"       validate:"omitempty,dive,url"`
	Tags        []string     `json:"tags"        validate:"omitempty,dive,max=50"`
}

// --- Analytics ---

type trackRequest struct {
	ID   string `json:"id"   validate:"required"`
	Type string `json:"type" validate:"required,oneof=article project"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type visitorRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type authResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      *domain.User    `json:"user,omitempty"`
	Visitor   *domain.Visitor `json:"visitor,omitempty"`
}

// --- Admin ---

type dashboardResponse struct {
	Stats              domain.SiteStats `json:"stats"`
	MostViewedArticles []domain.Article `json:"mostViewedArticles"`
	MostViewedProjects []domain.Project `json:"mostViewedProjects"`
}
