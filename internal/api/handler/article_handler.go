package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-api/internal/api/metrics"
	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

// ArticleHandler handles HTTP requests for articles and their comments.
type ArticleHandler struct {
	articles ports.ArticleService
	comments ports.CommentService
}

func NewArticleHandler(articles ports.ArticleService, comments ports.CommentService) *ArticleHandler {
	return &ArticleHandler{articles: articles, comments: comments}
}

// List handles GET /api/articles.
//
// @Summary      List articles
// @Description  Paginated listing. A tag switches to the tag variant, which ignores search and only returns published articles.
// @Tags         articles
// @Produce      json
// @Param        page           query     int     false  "Page (>= 1)"
// @Param        limit          query     int     false  "Page size (1-100)"
// @Param        search         query     string  false  "Case-insensitive match on title, description or content"
// @Param        sortBy         query     string  false  "createdAt | updatedAt | publishedAt | title | views | likes"
// @Param        sortOrder      query     string  false  "asc | desc"
// @Param        tag            query     string  false  "Tag filter"
// @Param        onlyPublished  query     bool    false  "Defaults to true"
// @Success      200            {object}  domain.ArticlePage
// @Failure      400            {object}  errorResponse
// @Router       /api/articles [get]
func (h *ArticleHandler) List(c echo.Context) error {
	in, err := bindListInput(c)
	if err != nil {
		return err
	}

	page, err := h.articles.ListArticles(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Latest handles GET /api/articles/latest.
//
// @Summary      Latest published articles
// @Tags         articles
// @Produce      json
// @Param        limit  query     int  false  "Number of articles (default 5)"
// @Success      200    {array}   domain.Article
// @Router       /api/articles/latest [get]
func (h *ArticleHandler) Latest(c echo.Context) error {
	var req latestArticlesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	articles, err := h.articles.LatestArticles(c.Request().Context(), req.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

// Get handles GET /api/articles/:id. Reading a published article counts a view.
//
// @Summary      Get an article with its comments
// @Tags         articles
// @Produce      json
// @Param        id   path      string  true  "Article id"
// @Success      200  {object}  domain.Article
// @Failure      404  {object}  errorResponse
// @Router       /api/articles/{id} [get]
func (h *ArticleHandler) Get(c echo.Context) error {
	article, err := h.articles.GetArticle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if article.Published {
		metrics.ContentViewsTotal.WithLabelValues(string(domain.ContentArticle)).Inc()
	}
	return c.JSON(http.StatusOK, article)
}

// Create handles POST /api/articles.
//
// @Summary      Create an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createArticleRequest  true  "Article"
// @Success      201   {object}  domain.Article
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	article, err := h.articles.CreateArticle(c.Request().Context(), ports.CreateArticleInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Image:       req.Image,
		Published:   req.Published,
		Links:       req.Links,
		Tags:        req.Tags,
	}, p.ID)
	if err != nil {
		return err
	}

	metrics.ArticlesCreatedTotal.WithLabelValues(strconv.FormatBool(article.Published)).Inc()
	return c.JSON(http.StatusCreated, article)
}

// Update handles PUT /api/articles/:id. Absent fields are left unchanged; a
// null image or links clears the stored value.
//
// @Summary      Update an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Article id"
// @Param        body  body      updateArticleRequest  true  "Fields to change"
// @Success      200   {object}  domain.Article
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/articles/{id} [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req updateArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Links.Present() {
		if err := c.Validate(&linksPayload{Links: req.Links.Value}); err != nil {
			return err
		}
	}

	article, err := h.articles.UpdateArticle(c.Request().Context(), c.Param("id"), ports.UpdateArticleInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Image:       req.Image,
		Published:   req.Published,
		Links:       req.Links,
		Tags:        req.Tags,
	}, p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /api/articles/:id.
//
// @Summary      Delete an article and its comments
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Article id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.articles.DeleteArticle(c.Request().Context(), c.Param("id"), p.ID); err != nil {
		return err
	}

	metrics.ArticlesDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "article deleted"})
}

// Like handles POST /api/articles/:id/like.
//
// @Summary      Like a published article
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Article id"
// @Success      200  {object}  successResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/articles/{id}/like [post]
func (h *ArticleHandler) Like(c echo.Context) error {
	if _, err := principal(c); err != nil {
		return err
	}
	if err := h.articles.LikeArticle(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.ContentLikesTotal.WithLabelValues(string(domain.ContentArticle)).Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// ListComments handles GET /api/articles/:id/comments.
//
// @Summary      List the comments of an article, newest first
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Article id"
// @Success      200  {array}   domain.Comment
// @Failure      404  {object}  errorResponse
// @Router       /api/articles/{id}/comments [get]
func (h *ArticleHandler) ListComments(c echo.Context) error {
	comments, err := h.comments.ListArticleComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// AddComment handles POST /api/articles/:id/comments. The author email comes
// from the session; the name from the payload or, failing that, the session.
//
// @Summary      Comment on a published article
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Article id"
// @Param        body  body      createCommentRequest  true  "Comment"
// @Success      201   {object}  domain.Comment
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/articles/{id}/comments [post]
func (h *ArticleHandler) AddComment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	name := req.Name
	if name == "" {
		name = p.Name
	}

	comment, err := h.comments.AddArticleComment(c.Request().Context(), ports.AddCommentInput{
		ArticleID: c.Param("id"),
		Content:   req.Content,
		Name:      name,
		Email:     p.Email,
	})
	if err != nil {
		return err
	}

	metrics.CommentsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, comment)
}

// bindListInput binds and validates listing query parameters. onlyPublished
// defaults to true.
func bindListInput(c echo.Context) (ports.ListArticlesInput, error) {
	var req listArticlesRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return ports.ListArticlesInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&req); err != nil {
		return ports.ListArticlesInput{}, err
	}

	onlyPublished := true
	if req.OnlyPublished != "" {
		onlyPublished, _ = strconv.ParseBool(req.OnlyPublished)
	}

	return ports.ListArticlesInput{
		Page:          req.Page,
		Limit:         req.Limit,
		Search:        req.Search,
		Tag:           req.Tag,
		SortBy:        req.SortBy,
		SortOrder:     domain.SortOrder(req.SortOrder),
		OnlyPublished: onlyPublished,
	}, nil
}
