package shared

import (
	"context"
	"fmt"
)

// UnitOfWork 管理事务边界与聚合事件收集。
// Execute 成功提交后，登记过的聚合记录的事件会交给分发器。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
}

type UnitOfWorkFactory interface {
	New() UnitOfWork
}

type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}

// Repository 聚合仓储的最小契约
// Find 在记录不存在时返回匹配 ErrNotFound 的错误
type Repository[T AggregateRoot] interface {
	Create(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
	Find(ctx context.Context, id string) (T, error)
	FindAll(ctx context.Context) ([]T, error)
}

// DispatchAfterCommit 在事务提交后分发事件
// 处理器失败时返回匹配 ErrDispatchFailed 的错误；此时状态已经提交
func DispatchAfterCommit(ctx context.Context, dispatcher *EventDispatcher, events []DomainEvent) error {
	if dispatcher == nil || len(events) == 0 {
		return nil
	}
	if err := dispatcher.NotifyAllContext(ctx, events); err != nil {
		return fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}
	return nil
}
