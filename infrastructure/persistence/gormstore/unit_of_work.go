package gormstore

import (
	"context"
	"fmt"

	"ddd-shop/domain/shared"
	"ddd-shop/infrastructure/persistence"
	"ddd-shop/infrastructure/persistence/retry"
	"ddd-shop/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork 基于 GORM 事务的工作单元
//
// Execute 流程：
// 1. 开启事务并放入 ctx，仓储通过 ctx 使用同一事务
// 2. 执行业务函数
// 3. 取出登记聚合的事件，写入 outbox（同一事务）
// 4. 提交；可重试错误（乐观锁冲突、死锁等）整体重试
// 5. 提交成功后把事件交给分发器
type UnitOfWork struct {
	db               *gorm.DB
	outboxRepository *OutboxRepository
	dispatcher       *shared.EventDispatcher
	retryConfig      retry.Config

	aggregates []shared.AggregateRoot
	// 失败尝试中已取出但未提交的事件，重试时归还给同一聚合
	carried map[shared.AggregateRoot][]shared.DomainEvent
}

func NewUnitOfWork(db *gorm.DB, dispatcher *shared.EventDispatcher) *UnitOfWork {
	return &UnitOfWork{
		db:               db,
		outboxRepository: NewOutboxRepository(db),
		dispatcher:       dispatcher,
		retryConfig:      retry.DefaultConfig,
		carried:          make(map[shared.AggregateRoot][]shared.DomainEvent),
	}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	var committed []shared.DomainEvent

	executeOnce := func(ctx context.Context) error {
		u.aggregates = u.aggregates[:0]

		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}
		// 出错或 fn panic 时回滚，panic 继续向上传播
		done := false
		defer func() {
			if !done {
				tx.Rollback()
			}
		}()
		txCtx := persistence.ContextWithTx(ctx, tx)

		if err := fn(txCtx); err != nil {
			return err
		}

		events := u.collectEvents()
		for _, event := range events {
			if err := u.outboxRepository.SaveEvent(txCtx, event); err != nil {
				return fmt.Errorf("failed to save event to outbox: %w", err)
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		done = true

		committed = events
		clear(u.carried)
		return nil
	}

	if err := retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce); err != nil {
		return err
	}

	if err := shared.DispatchAfterCommit(ctx, u.dispatcher, committed); err != nil {
		logger.FromContext(ctx).Warn("Event dispatch failed after commit",
			zap.Int("events", len(committed)), zap.Error(err))
		return err
	}
	return nil
}

// collectEvents 按登记顺序取出事件；事件先暂存，提交成功后才清除
func (u *UnitOfWork) collectEvents() []shared.DomainEvent {
	var events []shared.DomainEvent
	for _, agg := range u.aggregates {
		pulled := agg.PullEvents()
		if len(pulled) > 0 {
			u.carried[agg] = append(u.carried[agg], pulled...)
		}
		events = append(events, u.carried[agg]...)
	}
	return events
}

func (u *UnitOfWork) register(aggregate shared.AggregateRoot) {
	if aggregate == nil {
		return
	}
	for _, existing := range u.aggregates {
		if existing == aggregate {
			return
		}
	}
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.register(aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.register(aggregate)
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
