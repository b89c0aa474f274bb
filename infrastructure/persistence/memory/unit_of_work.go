package memory

import (
	"context"

	"ddd-shop/domain/shared"
	"ddd-shop/pkg/logger"

	"go.uber.org/zap"
)

// UnitOfWork 内存工作单元
// 同一个 Store 上的 Execute 串行执行；fn 失败时恢复到执行前的快照。
// fn 内不能再调用同一 Store 上的 Execute。
type UnitOfWork struct {
	store      *Store
	dispatcher *shared.EventDispatcher
	aggregates []shared.AggregateRoot
}

func NewUnitOfWork(store *Store, dispatcher *shared.EventDispatcher) *UnitOfWork {
	return &UnitOfWork{
		store:      store,
		dispatcher: dispatcher,
	}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	events, err := u.commit(ctx, fn)
	if err != nil {
		return err
	}

	// 分发时已释放 txMu，处理器可以开启新的工作单元
	if err := shared.DispatchAfterCommit(ctx, u.dispatcher, events); err != nil {
		logger.FromContext(ctx).Warn("Event dispatch failed after commit",
			zap.Int("events", len(events)), zap.Error(err))
		return err
	}
	return nil
}

func (u *UnitOfWork) commit(ctx context.Context, fn func(ctx context.Context) error) ([]shared.DomainEvent, error) {
	u.store.txMu.Lock()
	defer u.store.txMu.Unlock()

	u.aggregates = u.aggregates[:0]
	snap := u.store.snapshot()
	done := false
	defer func() {
		if !done {
			u.store.restore(snap)
		}
	}()

	if err := fn(ctx); err != nil {
		return nil, err
	}

	var events []shared.DomainEvent
	for _, agg := range u.aggregates {
		events = append(events, agg.PullEvents()...)
	}
	u.store.appendOutbox(events)
	done = true

	return events, nil
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

// UnitOfWorkFactory 为每个用例创建新的工作单元
type UnitOfWorkFactory struct {
	store      *Store
	dispatcher *shared.EventDispatcher
}

func NewUnitOfWorkFactory(store *Store, dispatcher *shared.EventDispatcher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, dispatcher: dispatcher}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.store, f.dispatcher)
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
