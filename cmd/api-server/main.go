package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"animelog/database"
	"animelog/internal/config"
	"animelog/internal/ingestion/anilist"
	"animelog/internal/ingestion/annict"
	"animelog/internal/ingestion/gql"
	"animelog/internal/kvstore"
	"animelog/internal/logging"
	"animelog/internal/microservices/http-api/handler"
	"animelog/internal/microservices/http-api/repository"
	"animelog/internal/microservices/http-api/service"
	"animelog/internal/microservices/http-api/storage"
	"animelog/internal/push"
	"animelog/internal/search"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.Must(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := kvstore.Open(cfg.KVDriver, cfg.RedisURL, cfg.RedisPassword, cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open kv store: %w", err)
	}
	defer kv.Close()
	logger.Info("key-value tier ready", zap.String("driver", cfg.KVDriver))

	// External catalogs
	searchSvc := search.NewService(
		anilist.NewClient(cfg.AniListAPIURL, gql.WithLogger(logger)),
		annict.NewClient(cfg.AnnictAPIURL, cfg.AnnictToken, gql.WithLogger(logger)),
		cfg.SearchTimeout, logger)

	animeSvc := service.NewAnimeService(logger)
	deps := handler.Deps{
		JWTSecret:   []byte(cfg.AuthJWTSecret),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
		Animes:      animeSvc,
		Watchlist:   service.NewWatchlistService(logger),
		Preferences: service.NewPreferenceService(),
		Rollover:    service.NewRolloverService(logger),
		Search:      searchSvc,
	}

	if !cfg.HostedEnabled() {
		logger.Warn("DATABASE_URL not set, serving the device tier only")
		deps.Resolver = storage.NewResolver(kv, nil, nil)
	} else {
		closeHosted, err := wireHosted(ctx, cfg, kv, animeSvc, &deps, logger)
		if err != nil {
			return err
		}
		defer closeHosted()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// wireHosted connects Postgres and fills in the logged-in tier: the hosted
// resolver, profile, review and notification services.
func wireHosted(ctx context.Context, cfg *config.Config, kv kvstore.Store, animeSvc service.AnimeService, deps *handler.Deps, logger *zap.Logger) (func(), error) {
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	pool, err := database.ConnectPool(ctx, cfg)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	// Repositories
	animeRepo := repository.NewAnimeRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	resolver := storage.NewResolver(kv, animeRepo, repository.NewWatchlistRepository(db))

	// Push is optional
	var (
		sender push.Sender
		vapid  *push.VAPID
	)
	if cfg.PushEnabled() {
		vapid, err = push.NewVAPID(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject)
		if err != nil {
			pool.Close()
			_ = sqlDB.Close()
			return nil, fmt.Errorf("vapid keys: %w", err)
		}
		sender = push.NewWebPushSender(vapid, logger)
	} else {
		logger.Warn("VAPID keys not set, push notifications disabled")
	}

	deps.Resolver = resolver
	deps.Profiles = service.NewProfileService(repository.NewProfileRepository(db), repository.NewAccountRepository(pool), resolver, animeSvc, logger)
	deps.Reviews = service.NewReviewService(reviewRepo, animeRepo)
	deps.Notifications = service.NewNotificationService(notificationRepo, sender, vapid, logger)
	deps.Ready = func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return sqlDB.PingContext(pingCtx)
	}

	return func() {
		pool.Close()
		_ = sqlDB.Close()
	}, nil
}
