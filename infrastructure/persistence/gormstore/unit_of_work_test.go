package gormstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"ddd-shop/domain/customer"
	"ddd-shop/domain/shared"
	"ddd-shop/infrastructure/persistence/gormstore/po"
	"ddd-shop/infrastructure/persistence/retry"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fastRetry() retry.Config {
	cfg := retry.DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.JitterEnabled = false
	return cfg
}

func countOutbox(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&po.OutboxEventPO{}).Count(&count).Error)
	return count
}

func TestUnitOfWork_CommitWritesOutboxAndDispatches(t *testing.T) {
	db := newTestDB(t)
	dispatcher := shared.NewEventDispatcher()

	var received []string
	dispatcher.Register(customer.EventCreated, shared.NewFuncHandler("collect", func(e shared.DomainEvent) error {
		received = append(received, e.GetAggregateID())
		return nil
	}))

	repo := NewCustomerRepository(db)
	uow := NewUnitOfWorkFactory(db, dispatcher, fastRetry()).New()

	c := newCustomer(t, "c1", "Customer 1")
	err := uow.Execute(ctx(), func(ctx context.Context) error {
		uow.RegisterNew(c)
		return repo.Create(ctx, c)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"c1"}, received)
	assert.Empty(t, c.PullEvents())

	var rows []po.OutboxEventPO
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1, "outbox rows: %s", spew.Sdump(rows))
	assert.Equal(t, customer.EventCreated, rows[0].EventType)
	assert.Equal(t, "c1", rows[0].AggregateID)
}

func TestUnitOfWork_RollbackOnError(t *testing.T) {
	db := newTestDB(t)
	dispatcher := shared.NewEventDispatcher()

	dispatched := 0
	dispatcher.Register(customer.EventCreated, shared.NewFuncHandler("count", func(shared.DomainEvent) error {
		dispatched++
		return nil
	}))

	repo := NewCustomerRepository(db)
	uow := NewUnitOfWork(db, dispatcher)

	boom := errors.New("boom")
	c := newCustomer(t, "c1", "Customer 1")
	err := uow.Execute(ctx(), func(ctx context.Context) error {
		uow.RegisterNew(c)
		if err := repo.Create(ctx, c); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.Find(ctx(), "c1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Zero(t, countOutbox(t, db))
	assert.Zero(t, dispatched)
}

func TestUnitOfWork_DispatchFailureKeepsCommittedState(t *testing.T) {
	db := newTestDB(t)
	dispatcher := shared.NewEventDispatcher()

	handlerErr := errors.New("mail server down")
	dispatcher.Register(customer.EventCreated, shared.NewFuncHandler("failing", func(shared.DomainEvent) error {
		return handlerErr
	}))

	repo := NewCustomerRepository(db)
	uow := NewUnitOfWork(db, dispatcher)

	c := newCustomer(t, "c1", "Customer 1")
	err := uow.Execute(ctx(), func(ctx context.Context) error {
		uow.RegisterNew(c)
		return repo.Create(ctx, c)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrDispatchFailed)
	assert.ErrorIs(t, err, shared.ErrHandlerFailed)
	assert.ErrorIs(t, err, handlerErr)

	found, err := repo.Find(ctx(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Customer 1", found.Name())
	assert.Equal(t, int64(1), countOutbox(t, db))
}

func TestUnitOfWork_RetriesConflict(t *testing.T) {
	db := newTestDB(t)
	dispatcher := shared.NewEventDispatcher()

	dispatched := 0
	dispatcher.Register(customer.EventCreated, shared.NewFuncHandler("count", func(shared.DomainEvent) error {
		dispatched++
		return nil
	}))

	repo := NewCustomerRepository(db)
	uow := NewUnitOfWork(db, dispatcher)
	uow.SetRetryConfig(fastRetry())

	c := newCustomer(t, "c1", "Customer 1")
	attempts := 0
	err := uow.Execute(ctx(), func(ctx context.Context) error {
		attempts++
		uow.RegisterNew(c)
		if err := repo.Create(ctx, c); err != nil {
			return err
		}
		if attempts == 1 {
			return customer.NewConcurrentModificationError(c.ID())
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, dispatched)
	assert.Equal(t, int64(1), countOutbox(t, db))
}

func TestUnitOfWork_DuplicateCreateIsNotRetried(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)
	require.NoError(t, repo.Create(ctx(), newCustomer(t, "c1", "Customer 1")))

	uow := NewUnitOfWork(db, shared.NewEventDispatcher())
	uow.SetRetryConfig(fastRetry())

	attempts := 0
	err := uow.Execute(ctx(), func(ctx context.Context) error {
		attempts++
		c := newCustomer(t, "c1", "Customer 1 again")
		uow.RegisterNew(c)
		return repo.Create(ctx, c)
	})

	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.NotErrorIs(t, err, shared.ErrConcurrentModification)
	assert.Equal(t, 1, attempts)
	assert.Zero(t, countOutbox(t, db))
}

func TestUnitOfWork_PanicRollsBack(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)
	uow := NewUnitOfWork(db, shared.NewEventDispatcher())

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.Execute(ctx(), func(ctx context.Context) error {
			if err := repo.Create(ctx, newCustomer(t, "c1", "Customer 1")); err != nil {
				return err
			}
			panic("boom")
		})
	})

	// 单连接 sqlite：事务未回滚时这里会拿不到连接
	findCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := repo.Find(findCtx, "c1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUnitOfWork_RegisterDeduplicates(t *testing.T) {
	db := newTestDB(t)
	dispatcher := shared.NewEventDispatcher()

	dispatched := 0
	dispatcher.Register(customer.EventCreated, shared.NewFuncHandler("count", func(shared.DomainEvent) error {
		dispatched++
		return nil
	}))

	repo := NewCustomerRepository(db)
	uow := NewUnitOfWork(db, dispatcher)

	c := newCustomer(t, "c1", "Customer 1")
	err := uow.Execute(ctx(), func(ctx context.Context) error {
		uow.RegisterNew(c)
		uow.RegisterDirty(c)
		return repo.Create(ctx, c)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, dispatched)
}
