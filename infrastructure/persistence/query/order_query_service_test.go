package query

import (
	"context"
	"testing"

	"ddd-shop/config"
	"ddd-shop/domain/order"
	"ddd-shop/infrastructure/persistence/gormstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*OrderQueryService, *gormstore.OrderRepository) {
	t.Helper()

	cfg := &gormstore.Config{Type: config.DatabaseSQLite, Path: ":memory:", LogLevel: "silent"}
	db, err := cfg.Connect()
	require.NoError(t, err)
	require.NoError(t, gormstore.AutoMigrate(db))
	t.Cleanup(func() { _ = gormstore.Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)

	svc, err := NewOrderQueryService(sqlDB, config.DatabaseSQLite)
	require.NoError(t, err)
	return svc, gormstore.NewOrderRepository(db)
}

func placeOrder(t *testing.T, repo *gormstore.OrderRepository, id, customerID string, lines ...[2]float64) {
	t.Helper()

	items := make([]order.OrderItem, len(lines))
	for i, line := range lines {
		item, err := order.NewOrderItem(id+"-"+string(rune('a'+i)), "Item", "p1", line[0], int(line[1]))
		require.NoError(t, err)
		items[i] = item
	}
	o, err := order.NewOrder(id, customerID, items)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), o))
}

func TestNewOrderQueryServiceRejectsUnknownType(t *testing.T) {
	_, err := NewOrderQueryService(nil, config.DatabaseMemory)
	assert.Error(t, err)
}

func TestOrderSummaries(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	placeOrder(t, repo, "o1", "c1", [2]float64{10, 4}, [2]float64{20, 1})
	placeOrder(t, repo, "o2", "c1", [2]float64{5, 1})
	placeOrder(t, repo, "o3", "c2", [2]float64{100, 2})

	all, err := svc.OrderSummaries(ctx, order.SearchCriteria{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	byID := make(map[string]order.Summary, len(all))
	for _, s := range all {
		byID[s.OrderID] = s
	}
	assert.Equal(t, order.Summary{OrderID: "o1", CustomerID: "c1", Total: 60, ItemCount: 2, Quantity: 5}, byID["o1"])
	assert.Equal(t, order.Summary{OrderID: "o3", CustomerID: "c2", Total: 200, ItemCount: 1, Quantity: 2}, byID["o3"])

	c1, err := svc.OrderSummaries(ctx, order.SearchCriteria{CustomerID: "c1"})
	require.NoError(t, err)
	assert.Len(t, c1, 2)

	big, err := svc.OrderSummaries(ctx, order.SearchCriteria{MinTotal: 50})
	require.NoError(t, err)
	assert.Len(t, big, 2)

	paged, err := svc.OrderSummaries(ctx, order.SearchCriteria{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 1)

	none, err := svc.OrderSummaries(ctx, order.SearchCriteria{CustomerID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCustomerStats(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	placeOrder(t, repo, "o1", "c1", [2]float64{10, 4})
	placeOrder(t, repo, "o2", "c1", [2]float64{20, 1})

	stats, err := svc.CustomerStats(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, order.CustomerStats{CustomerID: "c1", OrderCount: 2, TotalSpent: 60}, stats)

	empty, err := svc.CustomerStats(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, order.CustomerStats{CustomerID: "c2"}, empty)
}

func TestOverview(t *testing.T) {
	svc, repo := newTestService(t)

	placeOrder(t, repo, "o1", "c1", [2]float64{10, 4})
	placeOrder(t, repo, "o2", "c1", [2]float64{20, 1})
	placeOrder(t, repo, "o3", "c1", [2]float64{1, 1})

	overview, err := svc.Overview(context.Background(), "c1", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, overview.Stats.OrderCount)
	assert.Equal(t, 61.0, overview.Stats.TotalSpent)
	assert.Len(t, overview.Recent, 2)
}

func TestNormalizePage(t *testing.T) {
	page, size := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	_, size = normalizePage(3, 1000)
	assert.Equal(t, MaxPageSize, size)
}
