package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

func TestCommentService_Add(t *testing.T) {
	articles := newStubArticleRepo()
	comments := newStubCommentRepo()
	svc := NewCommentService(articles, comments, nopLogger)
	a := seedArticle(articles, "author-1", true, time.Now())

	c, err := svc.AddArticleComment(context.Background(), ports.AddCommentInput{
		ArticleID: a.ID,
		Content:   "  great read  ",
		Email:     "reader@example.com",
	})
	if err != nil {
		t.Fatalf("AddArticleComment returned error: %v", err)
	}
	if c.Content != "great read" || c.ArticleID != a.ID {
		t.Fatalf("unexpected comment: %+v", c)
	}

	list, err := svc.ListArticleComments(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ListArticleComments returned error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(list))
	}
}

func TestCommentService_Add_Errors(t *testing.T) {
	articles := newStubArticleRepo()
	svc := NewCommentService(articles, newStubCommentRepo(), nopLogger)
	published := seedArticle(articles, "author-1", true, time.Now())
	draft := seedArticle(articles, "author-1", false, time.Now().Add(time.Second))

	cases := []struct {
		name string
		in   ports.AddCommentInput
		want error
	}{
		{"too short", ports.AddCommentInput{ArticleID: published.ID, Content: " ab ", Email: "r@example.com"}, domain.ErrValidation},
		{"anonymous", ports.AddCommentInput{ArticleID: published.ID, Content: "hello", Email: ""}, domain.ErrUnauthenticated},
		{"draft", ports.AddCommentInput{ArticleID: draft.ID, Content: "hello", Email: "r@example.com"}, domain.ErrNotPublished},
		{"missing", ports.AddCommentInput{ArticleID: "nope", Content: "hello", Email: "r@example.com"}, domain.ErrArticleNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.AddArticleComment(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCommentService_List_EmptyAndMissing(t *testing.T) {
	articles := newStubArticleRepo()
	svc := NewCommentService(articles, newStubCommentRepo(), nopLogger)
	a := seedArticle(articles, "author-1", true, time.Now())

	list, err := svc.ListArticleComments(context.Background(), a.ID)
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %v (%v)", list, err)
	}
	if _, err := svc.ListArticleComments(context.Background(), "nope"); !errors.Is(err, domain.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestProjectService(t *testing.T) {
	repo := newStubProjectRepo()
	svc := NewProjectService(repo, nopLogger)

	if _, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{Title: " "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	p, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{
		Title:       "Portfolio",
		Description: "this very site",
		Tags:        []string{"go", "go"},
	})
	if err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}
	if len(p.Tags) != 1 {
		t.Fatalf("expected deduplicated tags, got %v", p.Tags)
	}

	got, err := svc.GetProject(context.Background(), p.ID)
	if err != nil || got.Title != "Portfolio" {
		t.Fatalf("GetProject: %+v, %v", got, err)
	}
	if _, err := svc.GetProject(context.Background(), ""); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}

	list, err := svc.ListProjects(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("ListProjects: %v, %v", list, err)
	}
}
