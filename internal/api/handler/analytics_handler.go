package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-api/internal/api/metrics"
	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

// AnalyticsHandler serves the engagement tracking endpoints and the admin
// overview built from the same counters.
type AnalyticsHandler struct {
	analytics ports.AnalyticsService
	articles  ports.ArticleService
}

func NewAnalyticsHandler(analytics ports.AnalyticsService, articles ports.ArticleService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, articles: articles}
}

// TrackView handles POST /api/analytics/track-view.
//
// @Summary      Record a view
// @Tags         analytics
// @Accept       json
// @Produce      json
// @Param        body  body      trackRequest  true  "Content reference"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/analytics/track-view [post]
func (h *AnalyticsHandler) TrackView(c echo.Context) error {
	req, err := bindTrack(c)
	if err != nil {
		return err
	}
	kind := domain.ContentType(req.Type)
	counted, err := h.analytics.TrackView(c.Request().Context(), kind, req.ID)
	if err != nil {
		return err
	}

	if counted {
		metrics.ContentViewsTotal.WithLabelValues(string(kind)).Inc()
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// TrackLike handles POST /api/analytics/track-like.
//
// @Summary      Record a like
// @Tags         analytics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      trackRequest  true  "Content reference"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/analytics/track-like [post]
func (h *AnalyticsHandler) TrackLike(c echo.Context) error {
	if _, err := principal(c); err != nil {
		return err
	}
	req, err := bindTrack(c)
	if err != nil {
		return err
	}
	kind := domain.ContentType(req.Type)
	if err := h.analytics.TrackLike(c.Request().Context(), kind, req.ID); err != nil {
		return err
	}

	metrics.ContentLikesTotal.WithLabelValues(string(kind)).Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// Stats handles GET /api/admin/stats.
//
// @Summary      Site statistics and most viewed content
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/stats [get]
func (h *AnalyticsHandler) Stats(c echo.Context) error {
	d, err := h.analytics.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		Stats:              d.Stats,
		MostViewedArticles: d.MostViewedArticles,
		MostViewedProjects: d.MostViewedProjects,
	})
}

// Articles handles GET /api/admin/articles: the caller's own articles,
// drafts included.
//
// @Summary      List the caller's articles
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page (>= 1)"
// @Param        limit      query     int     false  "Page size (1-100)"
// @Param        search     query     string  false  "Case-insensitive match on title, description or content"
// @Param        sortBy     query     string  false  "Sort field"
// @Param        sortOrder  query     string  false  "asc | desc"
// @Success      200        {object}  domain.ArticlePage
// @Failure      401        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Router       /api/admin/articles [get]
func (h *AnalyticsHandler) Articles(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	in, err := bindListInput(c)
	if err != nil {
		return err
	}

	page, err := h.articles.ListByAuthor(c.Request().Context(), p.ID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Visitors handles GET /api/admin/visitors.
//
// @Summary      List registered visitors
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Visitor
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/visitors [get]
func (h *AnalyticsHandler) Visitors(c echo.Context) error {
	visitors, err := h.analytics.Visitors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visitors)
}

func bindTrack(c echo.Context) (trackRequest, error) {
	var req trackRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}
