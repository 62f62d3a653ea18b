package api

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/portfolio/blog-api/docs"
	"github.com/portfolio/blog-api/internal/api/handler"
	"github.com/portfolio/blog-api/internal/api/middleware"
	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
	"github.com/portfolio/blog-api/internal/web"
)

// Deps are the collaborators the router wires into handlers. main builds
// them from the selected storage backend.
type Deps struct {
	Articles  ports.ArticleService
	Comments  ports.CommentService
	Projects  ports.ProjectService
	Analytics ports.AnalyticsService
	Auth      ports.AuthService
	Tokens    ports.TokenStore

	// Readiness maps a dependency name ("store", "redis") to its health check.
	Readiness map[string]handler.Pinger

	JWTSecret    string
	SecureCookie bool
	// RateLimit is the per-IP budget per minute on auth and analytics routes.
	RateLimit   int
	CORSOrigins []string

	// Registry defaults to the global Prometheus registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portfolio",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	if len(d.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     d.CORSOrigins,
			AllowCredentials: true,
		}))
	}

	// --- Handlers ---
	articleHandler := handler.NewArticleHandler(d.Articles, d.Comments)
	projectHandler := handler.NewProjectHandler(d.Projects)
	analyticsHandler := handler.NewAnalyticsHandler(d.Analytics, d.Articles)
	authHandler := handler.NewAuthHandler(d.Auth, d.SecureCookie)
	healthHandler := handler.NewHealthHandler(d.Readiness)
	pages := web.NewHandler(d.Articles, d.Comments, d.Analytics, d.Auth, d.SecureCookie, d.Log)

	requireSession := middleware.Auth(d.JWTSecret, d.Tokens)
	requireAdmin := middleware.RBAC(domain.RoleAdmin)
	limit := rateLimit(d.RateLimit)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Auth ---
	auth := api.Group("/auth", limit)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/visitor", authHandler.Visitor)
	auth.POST("/logout", authHandler.Logout, requireSession)

	// --- Articles ---
	api.GET("/articles", articleHandler.List)
	api.GET("/articles/latest", articleHandler.Latest)
	api.GET("/articles/:id", articleHandler.Get)
	api.GET("/articles/:id/comments", articleHandler.ListComments)
	api.POST("/articles", articleHandler.Create, requireSession, requireAdmin)
	api.PUT("/articles/:id", articleHandler.Update, requireSession, requireAdmin)
	api.DELETE("/articles/:id", articleHandler.Delete, requireSession, requireAdmin)
	api.POST("/articles/:id/like", articleHandler.Like, requireSession)
	api.POST("/articles/:id/comments", articleHandler.AddComment, requireSession)

	// --- Projects ---
	api.GET("/projects", projectHandler.List)
	api.GET("/projects/:id", projectHandler.Get)
	api.POST("/projects", projectHandler.Create, requireSession, requireAdmin)

	// --- Analytics ---
	analytics := api.Group("/analytics", limit)
	analytics.POST("/track-view", analyticsHandler.TrackView)
	analytics.POST("/track-like", analyticsHandler.TrackLike, requireSession)

	// --- Admin ---
	admin := api.Group("/admin", requireSession, requireAdmin)
	admin.GET("/stats", analyticsHandler.Stats)
	admin.GET("/articles", analyticsHandler.Articles)
	admin.GET("/visitors", analyticsHandler.Visitors)

	// --- Pages ---
	site := e.Group("", middleware.OptionalAuth(d.JWTSecret, d.Tokens), middleware.PageGuard())
	pages.Register(site)

	return e
}

func rateLimit(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echo.WrapMiddleware(httprate.LimitByIP(perMinute, time.Minute))
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				evt = log.Warn()
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("remote_ip", v.RemoteIP).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
