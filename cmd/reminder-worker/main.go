package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"animelog/database"
	"animelog/internal/config"
	"animelog/internal/logging"
	"animelog/internal/microservices/http-api/repository"
	"animelog/internal/push"
	"animelog/internal/reminder"

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

	logger := logging.Must(cfg.LogLevel, cfg.LogFormat).Named("reminder")
	defer func() { _ = logger.Sync() }()

	if !cfg.PushEnabled() {
		logger.Fatal("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY are required")
	}
	if !cfg.HostedEnabled() {
		logger.Fatal("DATABASE_URL is required")
	}
	vapid, err := push.NewVAPID(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject)
	if err != nil {
		logger.Fatal("invalid VAPID keys", zap.Error(err))
	}

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get database instance", zap.Error(err))
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := reminder.NewWorkerPool(cfg.ReminderWorkers, logger)
	pool.Start()
	defer pool.Shutdown()

	scheduler := reminder.NewScheduler(
		repository.NewWatchlistRepository(db),
		repository.NewNotificationRepository(db),
		push.NewWebPushSender(vapid, logger),
		pool,
		cfg.ReminderInterval,
		logger,
	)

	logger.Info("reminder worker running", zap.Duration("interval", cfg.ReminderInterval))
	if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler stopped", zap.Error(err))
	}
	logger.Info("reminder worker stopped")
}
