package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/vidtube/backend/internal/config"
	delivery "github.com/vidtube/backend/internal/delivery/http"
	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/errtrack"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/ratelimit"
	"github.com/vidtube/backend/internal/repository/memory"
	"github.com/vidtube/backend/internal/repository/postgres"
	"github.com/vidtube/backend/internal/response"
	"github.com/vidtube/backend/internal/usecase"
	"github.com/vidtube/backend/pkg/mediastore"
)

type repositories struct {
	users         domain.UserRepository
	tokens        domain.RefreshTokenRepository
	videos        domain.VideoRepository
	comments      domain.CommentRepository
	likes         domain.LikeRepository
	subscriptions domain.SubscriptionRepository
	playlists     domain.PlaylistRepository
	tweets        domain.TweetRepository
	db            delivery.Pinger
	close         func()
}

func main() {
	cfg := config.Load()
	logger := logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.Info("vidtube backend starting", "env", cfg.Environment, "port", cfg.Server.Port)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	reporter, err := errtrack.NewSentryReporter(cfg.Sentry.DSN, cfg.Environment)
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer reporter.Flush(2 * time.Second)

	repos, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer repos.close()

	media, err := openMediaStore(cfg, logger)
	if err != nil {
		return err
	}

	authLimiter, closeLimiter := openLimiter(cfg, logger)
	defer closeLimiter()

	tokens := usecase.NewTokenService(&cfg.JWT)
	uc := delivery.Usecases{
		Auth:          usecase.NewAuthUsecase(repos.users, repos.tokens, tokens, media, logger),
		Users:         usecase.NewUserUsecase(repos.users, media, logger),
		Videos:        usecase.NewVideoUsecase(repos.videos, repos.users, media, logger),
		Comments:      usecase.NewCommentUsecase(repos.comments, repos.videos),
		Likes:         usecase.NewLikeUsecase(repos.likes, repos.videos, repos.comments, repos.tweets),
		Subscriptions: usecase.NewSubscriptionUsecase(repos.subscriptions, repos.users),
		Playlists:     usecase.NewPlaylistUsecase(repos.playlists, repos.videos, repos.users),
		Tweets:        usecase.NewTweetUsecase(repos.tweets, repos.users),
		Dashboard:     usecase.NewDashboardUsecase(repos.videos, repos.likes, repos.subscriptions, repos.users),
	}

	responses := response.NewWriter(cfg.IsProduction(), logger, reporter)
	handler := delivery.NewHandler(uc, responses, repos.db, delivery.HandlerConfig{
		SecureCookies:  cfg.IsProduction(),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}, logger)
	authMiddleware := middleware.NewAuthMiddleware(uc.Auth, responses)

	router := delivery.NewRouter(handler, authMiddleware, delivery.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthLimiter:    authLimiter,
	}, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}

func openStorage(cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			users:         memory.NewUserRepository(store),
			tokens:        memory.NewRefreshTokenRepository(store),
			videos:        memory.NewVideoRepository(store),
			comments:      memory.NewCommentRepository(store),
			likes:         memory.NewLikeRepository(store),
			subscriptions: memory.NewSubscriptionRepository(store),
			playlists:     memory.NewPlaylistRepository(store),
			tweets:        memory.NewTweetRepository(store),
			db:            store,
			close:         func() {},
		}, nil
	case "postgres", "":
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	pool, err := connectPostgres(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := postgres.Migrate(ctx, pool)
		cancel()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database migrations applied")
	}

	return &repositories{
		users:         postgres.NewUserRepository(pool),
		tokens:        postgres.NewRefreshTokenRepository(pool),
		videos:        postgres.NewVideoRepository(pool),
		comments:      postgres.NewCommentRepository(pool),
		likes:         postgres.NewLikeRepository(pool),
		subscriptions: postgres.NewSubscriptionRepository(pool),
		playlists:     postgres.NewPlaylistRepository(pool),
		tweets:        postgres.NewTweetRepository(pool),
		db:            pool,
		close:         pool.Close,
	}, nil
}

// connectPostgres retries with a linear backoff so the server can start
// alongside its database container.
func connectPostgres(cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	tries := cfg.ConnectTries
	if tries < 1 {
		tries = 1
	}
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := pgxpool.New(ctx, cfg.URL)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				cancel()
				logger.Info("connected to postgres")
				return pool, nil
			}
			pool.Close()
		}
		cancel()

		logger.Warn("database connection failed", "attempt", attempt, "error", err)
		if attempt == tries {
			return nil, fmt.Errorf("could not connect to database after %d attempts: %w", tries, err)
		}
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
}

func openMediaStore(cfg *config.Config, logger *slog.Logger) (domain.MediaStore, error) {
	if cfg.Media.Bucket == "" {
		logger.Warn("S3_BUCKET not set, keeping uploads in memory")
		return memory.NewMediaStore("http://localhost:" + cfg.Server.Port + "/media")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := mediastore.New(ctx, mediastore.Config{
		Bucket:        cfg.Media.Bucket,
		Region:        cfg.Media.Region,
		Endpoint:      cfg.Media.Endpoint,
		AccessKey:     cfg.Media.AccessKey,
		SecretKey:     cfg.Media.SecretKey,
		PublicBaseURL: cfg.Media.PublicBaseURL,
		KeyPrefix:     cfg.Media.KeyPrefix,
		UsePathStyle:  cfg.Media.UsePathStyle,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("media store ready", "bucket", cfg.Media.Bucket)
	return store, nil
}

// openLimiter shares auth rate limits across instances through Redis when it
// is configured.
func openLimiter(cfg *config.Config, logger *slog.Logger) (ratelimit.Limiter, func()) {
	limit, window := cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow
	if limit <= 0 {
		logger.Warn("auth rate limiting disabled")
		return ratelimit.Disabled{}, func() {}
	}
	if cfg.Redis.Addr == "" {
		return ratelimit.NewMemory(limit, window), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// The middleware fails open, so a missing Redis only loses limiting.
		logger.Warn("redis unreachable, rate limiter will fail open until it recovers", "addr", cfg.Redis.Addr, "error", err)
	}
	return ratelimit.NewRedis(client, "vidtube:ratelimit", limit, window), func() { client.Close() }
}
