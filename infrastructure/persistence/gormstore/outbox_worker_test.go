package gormstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"ddd-shop/domain/customer"
	"ddd-shop/domain/shared"
	"ddd-shop/infrastructure/persistence/gormstore/po"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type failingPublisher struct {
	calls int
}

func (p *failingPublisher) Publish(context.Context, *po.OutboxEventPO) error {
	p.calls++
	return errors.New("broker unavailable")
}

func testWorkerConfig() WorkerConfig {
	return WorkerConfig{PollInterval: 10 * time.Millisecond, BatchSize: 10, MaxRetries: 2}
}

func TestNewOutboxWorkerValidatesConfig(t *testing.T) {
	repo := NewOutboxRepository(newTestDB(t))
	publisher := &failingPublisher{}

	_, err := NewOutboxWorker(nil, publisher, testWorkerConfig(), nil)
	assert.Error(t, err)
	_, err = NewOutboxWorker(repo, nil, testWorkerConfig(), nil)
	assert.Error(t, err)

	cfg := testWorkerConfig()
	cfg.BatchSize = 0
	_, err = NewOutboxWorker(repo, publisher, cfg, nil)
	assert.Error(t, err)

	_, err = NewOutboxWorker(repo, publisher, testWorkerConfig(), nil)
	assert.NoError(t, err)
}

func TestOutboxWorker_PublishesThroughDispatcher(t *testing.T) {
	repo := NewOutboxRepository(newTestDB(t))
	require.NoError(t, repo.SaveEvent(ctx(), customer.NewCreatedEvent("c1", "Customer 1")))
	require.NoError(t, repo.SaveEvent(ctx(), customer.NewCreatedEvent("c2", "Customer 2")))

	dispatcher := shared.NewEventDispatcher()
	var names []any
	dispatcher.Register(customer.EventCreated, shared.NewFuncHandler("relay", func(e shared.DomainEvent) error {
		data, ok := e.Payload().(map[string]any)
		require.True(t, ok)
		names = append(names, data["name"])
		return nil
	}))

	worker, err := NewOutboxWorker(repo, &DispatcherOutboxPublisher{Dispatcher: dispatcher}, testWorkerConfig(), nil)
	require.NoError(t, err)

	published, err := worker.ProcessBatch(ctx())
	require.NoError(t, err)
	assert.Equal(t, 2, published)
	assert.ElementsMatch(t, []any{"Customer 1", "Customer 2"}, names)

	counts, err := repo.CountByStatus(ctx())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[po.EventStatusPublished])
	assert.Zero(t, counts[po.EventStatusPending])

	published, err = worker.ProcessBatch(ctx())
	require.NoError(t, err)
	assert.Zero(t, published)
}

func TestOutboxWorker_FailedPublishRetriesThenGivesUp(t *testing.T) {
	repo := NewOutboxRepository(newTestDB(t))
	require.NoError(t, repo.SaveEvent(ctx(), customer.NewCreatedEvent("c1", "Customer 1")))

	core, logs := observer.New(zap.WarnLevel)
	publisher := &failingPublisher{}
	worker, err := NewOutboxWorker(repo, publisher, testWorkerConfig(), zap.New(core))
	require.NoError(t, err)

	published, err := worker.ProcessBatch(ctx())
	require.NoError(t, err)
	assert.Zero(t, published)

	counts, err := repo.CountByStatus(ctx())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[po.EventStatusPending], "first failure goes back to pending")

	_, err = worker.ProcessBatch(ctx())
	require.NoError(t, err)

	counts, err = repo.CountByStatus(ctx())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[po.EventStatusFailed])
	assert.Equal(t, 2, publisher.calls)
	assert.Equal(t, 2, logs.FilterMessage("Outbox event publish failed").Len())
}

func TestOutboxWorker_RunStopsOnCancel(t *testing.T) {
	repo := NewOutboxRepository(newTestDB(t))
	require.NoError(t, repo.SaveEvent(ctx(), customer.NewCreatedEvent("c1", "Customer 1")))

	core, logs := observer.New(zap.InfoLevel)
	worker, err := NewOutboxWorker(repo, &LoggingOutboxPublisher{Logger: zap.New(core)}, testWorkerConfig(), zap.New(core))
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx())
	done := make(chan error, 1)
	go func() { done <- worker.Run(runCtx) }()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("Outbox event published").Len() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
