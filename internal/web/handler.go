// Package web serves the server-rendered pages of the site. Pages reuse the
// same services as the JSON API and the same session cookie.
package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	g "github.com/maragudk/gomponents"
	"github.com/rs/zerolog"

	"github.com/portfolio/blog-api/internal/api/middleware"
	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
	"github.com/portfolio/blog-api/internal/pkg/patch"
)

const pageSize = 10

type Handler struct {
	articles     ports.ArticleService
	comments     ports.CommentService
	analytics    ports.AnalyticsService
	auth         ports.AuthService
	secureCookie bool
	log          zerolog.Logger
}

func NewHandler(
	articles ports.ArticleService,
	comments ports.CommentService,
	analytics ports.AnalyticsService,
	auth ports.AuthService,
	secureCookie bool,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		articles:     articles,
		comments:     comments,
		analytics:    analytics,
		auth:         auth,
		secureCookie: secureCookie,
		log:          log,
	}
}

// Register mounts the pages on grp. The group is expected to run OptionalAuth
// and PageGuard.
func (h *Handler) Register(grp *echo.Group) {
	grp.GET("/", h.Blog)
	grp.GET("/blog", h.Blog)
	grp.GET("/blog/:id", h.Article)
	grp.POST("/blog/:id/like", h.Like)
	grp.POST("/comment/:id", h.Comment)
	grp.GET("/login", h.LoginForm)
	grp.POST("/login", h.Login)
	grp.POST("/login/visitor", h.VisitorLogin)
	grp.GET("/register", h.RegisterForm)
	grp.POST("/register", h.RegisterAdmin)
	grp.POST("/logout", h.Logout)
	grp.GET("/admin", h.Dashboard)
	grp.GET("/admin/visitors", h.Visitors)
	grp.GET("/admin/articles/:id", h.EditArticle)
	grp.POST("/admin/articles/:id", h.SaveArticle)
}

// Blog lists published articles. Malformed query values fall back to the
// listing defaults instead of failing the page.
func (h *Handler) Blog(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	search := strings.TrimSpace(c.QueryParam("search"))
	tag := strings.TrimSpace(c.QueryParam("tag"))

	result, err := h.articles.ListArticles(c.Request().Context(), ports.ListArticlesInput{
		Page:          page,
		Limit:         pageSize,
		Search:        search,
		Tag:           tag,
		OnlyPublished: true,
	})
	if err != nil {
		return h.renderError(c, err)
	}
	return render(c, http.StatusOK, blogPage(h.props(c, "Blog"), result, search, tag))
}

// Article shows a published article with its comments and counts a view.
// Drafts are only visible to their author.
func (h *Handler) Article(c echo.Context) error {
	a, err := h.articles.GetArticle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.renderError(c, err)
	}
	if !a.Published {
		if p, ok := middleware.CurrentPrincipal(c); !ok || p.ID != a.AuthorID {
			return h.renderError(c, domain.ErrArticleNotFound)
		}
	}
	return render(c, http.StatusOK, articlePage(h.props(c, a.Title), a))
}

func (h *Handler) Like(c echo.Context) error {
	id := c.Param("id")
	if err := h.articles.LikeArticle(c.Request().Context(), id); err != nil {
		return h.renderError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/blog/"+id)
}

func (h *Handler) Comment(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return h.renderError(c, domain.ErrUnauthenticated)
	}

	id := c.Param("id")
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		name = p.Name
	}
	_, err := h.comments.AddArticleComment(c.Request().Context(), ports.AddCommentInput{
		ArticleID: id,
		Content:   c.FormValue("content"),
		Name:      name,
		Email:     p.Email,
	})
	if err != nil {
		return h.renderError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/blog/"+id)
}

func (h *Handler) LoginForm(c echo.Context) error {
	return render(c, http.StatusOK, loginPage(h.props(c, "Sign in"), safeCallback(c.QueryParam("callbackUrl")), ""))
}

func (h *Handler) Login(c echo.Context) error {
	callback := safeCallback(c.FormValue("callbackUrl"))
	session, err := h.auth.Login(c.Request().Context(), c.FormValue("email"), c.FormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return render(c, http.StatusUnauthorized, loginPage(h.props(c, "Sign in"), callback, err.Error()))
		}
		return h.renderError(c, err)
	}

	middleware.SetSessionCookie(c, session.Token, session.ExpiresAt, h.secureCookie)
	if callback == "/" {
		callback = "/admin"
	}
	return c.Redirect(http.StatusSeeOther, callback)
}

func (h *Handler) VisitorLogin(c echo.Context) error {
	callback := safeCallback(c.FormValue("callbackUrl"))
	session, err := h.auth.RegisterVisitor(c.Request().Context(), c.FormValue("email"))
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return render(c, http.StatusBadRequest, loginPage(h.props(c, "Sign in"), callback, ve.Message))
		}
		return h.renderError(c, err)
	}

	middleware.SetSessionCookie(c, session.Token, session.ExpiresAt, h.secureCookie)
	return c.Redirect(http.StatusSeeOther, callback)
}

func (h *Handler) RegisterForm(c echo.Context) error {
	return render(c, http.StatusOK, registerPage(h.props(c, "Register"), ""))
}

// RegisterAdmin creates the account and signs it in.
func (h *Handler) RegisterAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	email, password := c.FormValue("email"), c.FormValue("password")
	if len(password) < 8 {
		return render(c, http.StatusBadRequest, registerPage(h.props(c, "Register"), "password must be at least 8 characters"))
	}

	if _, err := h.auth.RegisterAdmin(ctx, c.FormValue("name"), email, password); err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return render(c, http.StatusBadRequest, registerPage(h.props(c, "Register"), ve.Message))
		case errors.Is(err, domain.ErrEmailTaken):
			return render(c, http.StatusConflict, registerPage(h.props(c, "Register"), err.Error()))
		}
		return h.renderError(c, err)
	}

	session, err := h.auth.Login(ctx, email, password)
	if err != nil {
		return h.renderError(c, err)
	}
	middleware.SetSessionCookie(c, session.Token, session.ExpiresAt, h.secureCookie)
	return c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *Handler) Logout(c echo.Context) error {
	if p, ok := middleware.CurrentPrincipal(c); ok {
		if err := h.auth.Logout(c.Request().Context(), p); err != nil {
			h.log.Warn().Err(err).Str("user_id", p.ID).Msg("logout: revoke failed")
		}
	}
	middleware.ClearSessionCookie(c, h.secureCookie)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) Dashboard(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return h.renderError(c, domain.ErrUnauthenticated)
	}
	ctx := c.Request().Context()

	d, err := h.analytics.Dashboard(ctx)
	if err != nil {
		return h.renderError(c, err)
	}
	mine, err := h.articles.ListByAuthor(ctx, p.ID, ports.ListArticlesInput{Limit: domain.MaxLimit})
	if err != nil {
		return h.renderError(c, err)
	}
	return render(c, http.StatusOK, adminPage(h.props(c, "Dashboard"), d, mine))
}

func (h *Handler) Visitors(c echo.Context) error {
	visitors, err := h.analytics.Visitors(c.Request().Context())
	if err != nil {
		return h.renderError(c, err)
	}
	return render(c, http.StatusOK, visitorsPage(h.props(c, "Visitors"), visitors))
}

// articleForm holds the edit form fields as submitted.
type articleForm struct {
	ID          string
	Title       string
	Description string
	Content     string
	Image       string
	Tags        string
	Published   bool
}

func newArticleForm(a *domain.Article) articleForm {
	return articleForm{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		Image:       deref(a.Image),
		Tags:        strings.Join(a.Tags, ", "),
		Published:   a.Published,
	}
}

// input sends every form field. An empty image clears it; links are not on
// the form and stay untouched.
func (f articleForm) input() ports.UpdateArticleInput {
	in := ports.UpdateArticleInput{
		Title:       patch.Some(f.Title),
		Description: patch.Some(f.Description),
		Content:     patch.Some(f.Content),
		Image:       patch.Null[string](),
		Published:   patch.Some(f.Published),
		Tags:        patch.Some(strings.Split(f.Tags, ",")),
	}
	if img := strings.TrimSpace(f.Image); img != "" {
		in.Image = patch.Some(img)
	}
	return in
}

// EditArticle shows the edit form for one of the signed-in admin's articles.
func (h *Handler) EditArticle(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return h.renderError(c, domain.ErrUnauthenticated)
	}

	a, err := h.articles.ArticleForEdit(c.Request().Context(), c.Param("id"), p.ID)
	if err != nil {
		return h.renderError(c, err)
	}
	return render(c, http.StatusOK, editArticlePage(h.props(c, "Edit article"), newArticleForm(a), ""))
}

// SaveArticle applies the edit form. Validation errors re-render the form
// with what was submitted.
func (h *Handler) SaveArticle(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return h.renderError(c, domain.ErrUnauthenticated)
	}

	f := articleForm{
		ID:          c.Param("id"),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Content:     c.FormValue("content"),
		Image:       c.FormValue("image"),
		Tags:        c.FormValue("tags"),
		Published:   c.FormValue("published") != "",
	}
	if _, err := h.articles.UpdateArticle(c.Request().Context(), f.ID, f.input(), p.ID); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return render(c, http.StatusBadRequest, editArticlePage(h.props(c, "Edit article"), f, ve.Message))
		}
		return h.renderError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *Handler) props(c echo.Context, title string) LayoutProps {
	props := LayoutProps{Title: title}
	if p, ok := middleware.CurrentPrincipal(c); ok {
		props.User = &p
	}
	return props
}

func (h *Handler) renderError(c echo.Context, err error) error {
	status, msg := http.StatusInternalServerError, "Something went wrong."
	var ve *domain.ValidationError
	var npe *domain.NotPublishedError
	switch {
	case errors.As(err, &ve):
		status, msg = http.StatusBadRequest, ve.Message
	case errors.As(err, &npe):
		status, msg = http.StatusBadRequest, npe.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		status, msg = http.StatusUnauthorized, "Please sign in first."
	case errors.Is(err, domain.ErrForbidden):
		status, msg = http.StatusForbidden, "You cannot do that."
	case errors.Is(err, domain.ErrArticleNotFound):
		status, msg = http.StatusNotFound, "Article not found."
	default:
		h.log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("page failed")
	}
	return render(c, status, errorPage(h.props(c, "Error"), status, msg))
}

func render(c echo.Context, status int, node g.Node) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return node.Render(c.Response())
}

// safeCallback only accepts local absolute paths so the login form cannot be
// used as an open redirect.
func safeCallback(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return "/"
	}
	return raw
}
