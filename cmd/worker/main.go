package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ddd-shop/cmd"
	"ddd-shop/config"
	"ddd-shop/infrastructure/persistence"
	"ddd-shop/infrastructure/persistence/gormstore"
	apperrors "ddd-shop/pkg/errors"
	"ddd-shop/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const statsInterval = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Worker failed: %v\n", err)
		os.Exit(apperrors.ExitCodeOf(err))
	}
}

func run() error {
	var configPath, publisherName string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&publisherName, "publisher", "log", "Outbox publisher: log, dispatch")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeBadRequest, "failed to load config")
	}

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Outbox.Enabled {
		logger.Info("Outbox worker is disabled by config; exiting")
		return nil
	}
	if cfg.Database.Type == config.DatabaseMemory {
		return apperrors.Wrap(cmd.ErrDatabaseRequired, apperrors.CodeBadRequest, "outbox worker needs a SQL database")
	}

	app, err := cmd.NewBuilder(cfg).Build()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	var publisher gormstore.OutboxPublisher
	switch publisherName {
	case "log":
		publisher = &gormstore.LoggingOutboxPublisher{Logger: logger.Named("publisher")}
	case "dispatch":
		publisher = &gormstore.DispatcherOutboxPublisher{Dispatcher: app.Dispatcher()}
	default:
		return apperrors.BadRequest(fmt.Sprintf("unknown publisher %q", publisherName))
	}

	worker, err := app.NewOutboxWorker(publisher)
	if err != nil {
		return fmt.Errorf("failed to create outbox worker: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = persistence.ContextWithRequestID(ctx, uuid.NewString())

	logger.FromContext(ctx).Info("Starting outbox worker",
		zap.String("publisher", publisherName),
		zap.Duration("poll_interval", cfg.Outbox.PollInterval),
		zap.Int("batch_size", cfg.Outbox.BatchSize),
		zap.Int("max_retries", cfg.Outbox.MaxRetries),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(ctx)
	})
	g.Go(func() error {
		return reportStats(ctx, gormstore.NewOutboxRepository(app.DB()))
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("outbox worker exited with error: %w", err)
	}

	logger.Info("Outbox worker stopped")
	return nil
}

// reportStats 定期输出 outbox 各状态的事件数
func reportStats(ctx context.Context, repo *gormstore.OutboxRepository) error {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			counts, err := repo.CountByStatus(ctx)
			if err != nil {
				logger.Warn("Failed to count outbox events", zap.Error(err))
				continue
			}
			fields := make([]zap.Field, 0, len(counts))
			for status, n := range counts {
				fields = append(fields, zap.Int64(string(status), n))
			}
			logger.Info("Outbox status", fields...)
		}
	}
}
