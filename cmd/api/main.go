package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/portfolio/blog-api/internal/api"
	"github.com/portfolio/blog-api/internal/api/handler"
	"github.com/portfolio/blog-api/internal/core/ports"
	"github.com/portfolio/blog-api/internal/core/service"
	"github.com/portfolio/blog-api/internal/infrastructure/db/mongo"
	"github.com/portfolio/blog-api/internal/infrastructure/db/redis"
	"github.com/portfolio/blog-api/internal/infrastructure/db/sqlstore"
	"github.com/portfolio/blog-api/internal/pkg/config"
	"github.com/portfolio/blog-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// repositories is the storage backend selected by STORAGE_DRIVER.
type repositories struct {
	articles ports.ArticleRepository
	comments ports.CommentRepository
	projects ports.ProjectRepository
	users    ports.UserRepository
	stats    ports.StatsRepository
	pinger   handler.Pinger
	close    func(context.Context) error
}

// @title                       Portfolio Blog API
// @version                     1.0
// @description                 Articles, comments, projects, engagement analytics and sessions of the portfolio site.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// the logger is not configured yet
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "blog-api",
	})
	log.Info().Str("env", cfg.Env).Str("storage", cfg.StorageDriver).Msg("starting portfolio api")

	repos, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.StorageDriver).Msg("failed to open store")
	}

	readiness := map[string]handler.Pinger{"store": repos.pinger}

	var tokens interface {
		ports.TokenStore
		handler.Pinger
	}
	var closeRedis func() error
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		tokens = redis.NewTokenRevocationStore(client)
		readiness["redis"] = tokens
		closeRedis = client.Close
	} else {
		log.Warn().Msg("REDIS_ADDR not set, revoked tokens are kept in memory")
		tokens = redis.NewMemoryRevocationStore()
	}

	authService := service.NewAuthService(repos.users, tokens, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	articleService := service.NewArticleService(repos.articles, repos.comments, repos.users, logger.Component("articles"))
	commentService := service.NewCommentService(repos.articles, repos.comments, logger.Component("comments"))
	projectService := service.NewProjectService(repos.projects, logger.Component("projects"))
	analyticsService := service.NewAnalyticsService(repos.articles, repos.projects, repos.users, repos.stats, logger.Component("analytics"))

	router := api.NewRouter(api.Deps{
		Articles:     articleService,
		Comments:     commentService,
		Projects:     projectService,
		Analytics:    analyticsService,
		Auth:         authService,
		Tokens:       tokens,
		Readiness:    readiness,
		JWTSecret:    cfg.JWTSecret,
		SecureCookie: cfg.CookieSecure || cfg.IsProduction(),
		RateLimit:    cfg.RateLimit,
		CORSOrigins:  cfg.CORSOrigins,
		Log:          logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := repos.close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to close store")
	}
	if closeRedis != nil {
		if err := closeRedis(); err != nil {
			log.Error().Err(err).Msg("failed to close redis")
		}
	}

	log.Info().Msg("server exited gracefully")
}

func openStore(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		db, err := sqlstore.Open(ctx, sqlstore.Config{
			DSN:   cfg.SQLite.DSN,
			Debug: cfg.LogLevel == "debug" || cfg.LogLevel == "trace",
		})
		if err != nil {
			return nil, err
		}
		return &repositories{
			articles: sqlstore.NewArticleRepository(db),
			comments: sqlstore.NewCommentRepository(db),
			projects: sqlstore.NewProjectRepository(db),
			users:    sqlstore.NewUserRepository(db),
			stats:    sqlstore.NewStatsRepository(db),
			pinger:   sqlstore.NewPinger(db),
			close:    func(context.Context) error { return sqlstore.Close(db) },
		}, nil

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &repositories{
			articles: mongo.NewArticleRepository(db),
			comments: mongo.NewCommentRepository(db),
			projects: mongo.NewProjectRepository(db),
			users:    mongo.NewUserRepository(db),
			stats:    mongo.NewStatsRepository(db),
			pinger:   mongo.NewPinger(db),
			close:    client.Disconnect,
		}, nil
	}
}
