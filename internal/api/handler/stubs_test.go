package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.Session, error)
	visitorFn  func(ctx context.Context, email string) (*ports.Session, error)
	logoutFn   func(ctx context.Context, p ports.Principal) error
}

func (s *stubAuthService) RegisterAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) RegisterVisitor(ctx context.Context, email string) (*ports.Session, error) {
	return s.visitorFn(ctx, email)
}

func (s *stubAuthService) Logout(ctx context.Context, p ports.Principal) error {
	return s.logoutFn(ctx, p)
}

type stubArticleService struct {
	createFn   func(ctx context.Context, in ports.CreateArticleInput, authorID string) (*domain.Article, error)
	getFn      func(ctx context.Context, id string) (*domain.Article, error)
	editFn     func(ctx context.Context, id, userID string) (*domain.Article, error)
	updateFn   func(ctx context.Context, id string, in ports.UpdateArticleInput, userID string) (*domain.Article, error)
	deleteFn   func(ctx context.Context, id, userID string) error
	listFn     func(ctx context.Context, in ports.ListArticlesInput) (*domain.ArticlePage, error)
	byAuthorFn func(ctx context.Context, authorID string, in ports.ListArticlesInput) (*domain.ArticlePage, error)
	latestFn   func(ctx context.Context, limit int) ([]domain.Article, error)
	likeFn     func(ctx context.Context, id string) error
}

func (s *stubArticleService) CreateArticle(ctx context.Context, in ports.CreateArticleInput, authorID string) (*domain.Article, error) {
	return s.createFn(ctx, in, authorID)
}

func (s *stubArticleService) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	return s.getFn(ctx, id)
}

func (s *stubArticleService) ArticleForEdit(ctx context.Context, id, userID string) (*domain.Article, error) {
	return s.editFn(ctx, id, userID)
}

func (s *stubArticleService) UpdateArticle(ctx context.Context, id string, in ports.UpdateArticleInput, userID string) (*domain.Article, error) {
	return s.updateFn(ctx, id, in, userID)
}

func (s *stubArticleService) DeleteArticle(ctx context.Context, id, userID string) error {
	return s.deleteFn(ctx, id, userID)
}

func (s *stubArticleService) ListArticles(ctx context.Context, in ports.ListArticlesInput) (*domain.ArticlePage, error) {
	return s.listFn(ctx, in)
}

func (s *stubArticleService) ListByAuthor(ctx context.Context, authorID string, in ports.ListArticlesInput) (*domain.ArticlePage, error) {
	return s.byAuthorFn(ctx, authorID, in)
}

func (s *stubArticleService) LatestArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	return s.latestFn(ctx, limit)
}

func (s *stubArticleService) LikeArticle(ctx context.Context, id string) error {
	return s.likeFn(ctx, id)
}

type stubCommentService struct {
	addFn  func(ctx context.Context, in ports.AddCommentInput) (*domain.Comment, error)
	listFn func(ctx context.Context, articleID string) ([]domain.Comment, error)
}

func (s *stubCommentService) AddArticleComment(ctx context.Context, in ports.AddCommentInput) (*domain.Comment, error) {
	return s.addFn(ctx, in)
}

func (s *stubCommentService) ListArticleComments(ctx context.Context, articleID string) ([]domain.Comment, error) {
	return s.listFn(ctx, articleID)
}

type stubProjectService struct {
	createFn func(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error)
	getFn    func(ctx context.Context, id string) (*domain.Project, error)
	listFn   func(ctx context.Context) ([]domain.Project, error)
}

func (s *stubProjectService) CreateProject(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	return s.createFn(ctx, in)
}

func (s *stubProjectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.getFn(ctx, id)
}

func (s *stubProjectService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.listFn(ctx)
}

type stubAnalyticsService struct {
	viewFn      func(ctx context.Context, kind domain.ContentType, id string) (bool, error)
	likeFn      func(ctx context.Context, kind domain.ContentType, id string) error
	dashboardFn func(ctx context.Context) (*ports.Dashboard, error)
	visitorsFn  func(ctx context.Context) ([]domain.Visitor, error)
}

func (s *stubAnalyticsService) TrackView(ctx context.Context, kind domain.ContentType, id string) (bool, error) {
	return s.viewFn(ctx, kind, id)
}

func (s *stubAnalyticsService) TrackLike(ctx context.Context, kind domain.ContentType, id string) error {
	return s.likeFn(ctx, kind, id)
}

func (s *stubAnalyticsService) Dashboard(ctx context.Context) (*ports.Dashboard, error) {
	return s.dashboardFn(ctx)
}

func (s *stubAnalyticsService) Visitors(ctx context.Context) ([]domain.Visitor, error) {
	return s.visitorsFn(ctx)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

// newContext builds an Echo context with the validator and error handler the
// router installs. A non-empty body is sent as JSON.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withPrincipal sets the context keys the Auth middleware would set.
func withPrincipal(c echo.Context, id, email, name string, role domain.Role) {
	c.Set("user_id", id)
	c.Set("email", email)
	c.Set("name", name)
	c.Set("role", string(role))
	c.Set("jti", "jti-"+id)
}
