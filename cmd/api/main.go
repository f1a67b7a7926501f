package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blog-service/internal/api/http"
	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/persistence"
	"github.com/spec-kit/blog-service/internal/ratelimit"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/repository/memory"
	"github.com/spec-kit/blog-service/internal/service"
	"github.com/spec-kit/blog-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("invalid redis configuration", zap.Error(err))
	}
	defer redis.Close()

	var repos repository.Repositories
	if pg.Enabled() {
		repos = repository.NewPostgres(pg.Pool)
	} else {
		repos = memory.New()
	}

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL(),
		RefreshTTL:    cfg.Auth.RefreshTTL(),
	})
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	notifier := worker.NewNotificationWorker(events.NewInMemoryDispatcher(), logger, 256)
	notifier.Start(ctx, service.NewNotificationService(notifier, logger, metrics, cfg.Notification))

	authService := service.NewAuthService(repos.Users, tokens, cfg.Auth.BcryptCost, logger)
	postService := service.NewPostService(service.PostDependencies{
		PostRepo:   repos.Posts,
		LikeRepo:   repos.Likes,
		Dispatcher: notifier,
		Logger:     logger,
	})
	commentService := service.NewCommentService(repos.Comments, repos.Posts, notifier, logger)
	favoriteService := service.NewFavoriteService(repos.Favorites, repos.Posts, notifier, logger)
	userService := service.NewUserService(repos.Users, repos.Posts)

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(redis.Client, ratelimit.Config{Max: cfg.RateLimit.Max, Window: cfg.RateLimit.Window()})
	}

	validator := handlers.NewValidator()
	app := httptransport.NewApp(httptransport.ServerConfig{
		AppName:     cfg.App.Name,
		BodyLimit:   cfg.App.BodyLimitBytes,
		ExposeStack: !cfg.App.IsProduction(),
		Middleware: httptransport.MiddlewareConfig{
			Logger:       logger,
			Metrics:      metrics,
			Timeout:      cfg.App.RequestTimeout(),
			AllowOrigins: cfg.CORS.AllowOrigins,
			Limiter:      limiter,
		},
	}, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService, validator),
		Posts:          handlers.NewPostsHandler(postService, validator),
		Comments:       handlers.NewCommentsHandler(commentService, validator),
		Favorites:      handlers.NewFavoritesHandler(favoriteService),
		Users:          handlers.NewUsersHandler(userService, validator),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	notifier.Stop()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
