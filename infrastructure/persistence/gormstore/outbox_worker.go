package gormstore

import (
	"context"
	"fmt"
	"time"

	"ddd-shop/config"
	"ddd-shop/domain/shared"
	"ddd-shop/infrastructure/persistence/gormstore/po"
	"ddd-shop/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// OutboxPublisher 把 outbox 事件转发到外部
type OutboxPublisher interface {
	Publish(ctx context.Context, event *po.OutboxEventPO) error
}

// LoggingOutboxPublisher 只写日志
type LoggingOutboxPublisher struct {
	Logger *zap.Logger
}

func (p *LoggingOutboxPublisher) Publish(ctx context.Context, event *po.OutboxEventPO) error {
	p.Logger.With(logger.ContextFields(ctx)...).Info("Outbox event published",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.String("aggregate_id", event.AggregateID),
		zap.String("payload", event.Payload),
	)
	return nil
}

// DispatcherOutboxPublisher 把 outbox 事件还原后交给进程内分发器
type DispatcherOutboxPublisher struct {
	Dispatcher *shared.EventDispatcher
}

func (p *DispatcherOutboxPublisher) Publish(ctx context.Context, event *po.OutboxEventPO) error {
	domainEvent, err := event.ToDomainEvent()
	if err != nil {
		return fmt.Errorf("decode outbox event %s: %w", event.ID, err)
	}
	return p.Dispatcher.NotifyContext(ctx, domainEvent)
}

// WorkerConfig outbox worker 参数
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
	PublishRate  float64 // 每秒最多发送的事件数，<= 0 表示不限速
	PublishBurst int
}

// WorkerConfigFromApp 从应用配置构造
func WorkerConfigFromApp(cfg config.OutboxConfig) WorkerConfig {
	return WorkerConfig{
		PollInterval: cfg.PollInterval,
		BatchSize:    cfg.BatchSize,
		MaxRetries:   cfg.MaxRetries,
		PublishRate:  cfg.PublishRate,
		PublishBurst: cfg.PublishBurst,
	}
}

// OutboxWorker 轮询 outbox 表并转发事件
type OutboxWorker struct {
	repository *OutboxRepository
	publisher  OutboxPublisher
	limiter    *rate.Limiter
	cfg        WorkerConfig
	logger     *zap.Logger
}

func NewOutboxWorker(repository *OutboxRepository, publisher OutboxPublisher, cfg WorkerConfig, logger *zap.Logger) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if cfg.MaxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	burst := cfg.PublishBurst
	if cfg.PublishRate > 0 {
		limit = rate.Limit(cfg.PublishRate)
		if burst <= 0 {
			burst = 1
		}
	}

	return &OutboxWorker{
		repository: repository,
		publisher:  publisher,
		limiter:    rate.NewLimiter(limit, burst),
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Run 阻塞直到 ctx 取消
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.logger.Info("Outbox worker started",
		zap.Duration("poll_interval", w.cfg.PollInterval),
		zap.Int("batch_size", w.cfg.BatchSize),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Outbox worker stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil && ctx.Err() == nil {
				w.logger.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch 处理一批待发送事件，返回成功发送的数量
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	events, err := w.repository.GetPendingEvents(ctx, w.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	log := w.logger.With(logger.ContextFields(ctx)...)
	published := 0
	for _, event := range events {
		if err := w.limiter.Wait(ctx); err != nil {
			return published, err
		}

		if err := w.repository.MarkEventProcessing(ctx, event.ID); err != nil {
			log.Warn("Skip outbox event due to lock contention",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		if err := w.publisher.Publish(ctx, event); err != nil {
			log.Warn("Outbox event publish failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			if failErr := w.repository.MarkEventFailed(ctx, event.ID, w.cfg.MaxRetries); failErr != nil {
				log.Error("Failed to mark outbox event as failed",
					zap.String("event_id", event.ID),
					zap.Error(failErr),
				)
			}
			continue
		}

		if err := w.repository.MarkEventPublished(ctx, event.ID); err != nil {
			log.Error("Failed to mark outbox event as published",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	return published, nil
}
