package memory

import (
	"context"
	"testing"

	"ddd-shop/domain/customer"
	"ddd-shop/domain/order"
	"ddd-shop/domain/product"
	"ddd-shop/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(t *testing.T, id string, unitPrice float64, quantity int) order.OrderItem {
	t.Helper()
	item, err := order.NewOrderItem(id, "Item "+id, "p"+id, unitPrice, quantity)
	require.NoError(t, err)
	return item
}

func TestCustomerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(NewStore())

	c, err := customer.NewCustomer("123", "Customer 1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, c))
	assert.ErrorIs(t, repo.Create(ctx, c), shared.ErrConflict)

	found, err := repo.Find(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "Customer 1", found.Name())
	assert.NotSame(t, c, found)

	// 未保存的修改不影响存储
	require.NoError(t, found.ChangeName("changed"))
	again, err := repo.Find(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "Customer 1", again.Name())

	require.NoError(t, repo.Update(ctx, found))
	assert.Equal(t, 1, found.Version())
	again, err = repo.Find(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "changed", again.Name())

	// c 仍是版本 0
	assert.ErrorIs(t, repo.Update(ctx, c), shared.ErrConflict)

	_, err = repo.Find(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	ghost, err := customer.NewCustomer("ghost", "Nobody")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)
}

func TestCustomerRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(NewStore())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, id := range []string{"c1", "c2"} {
		c, err := customer.NewCustomer(id, "Customer "+id)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, c))
	}

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "c1", all[0].ID())
	assert.Equal(t, "c2", all[1].ID())
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())

	p, err := product.NewProduct("p1", "Product 1", 100)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, p.ChangePrice(150))
	require.NoError(t, repo.Update(ctx, p))

	found, err := repo.Find(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 150.0, found.Price())
	assert.Equal(t, 1, found.Version())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.Find(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(NewStore())

	o, err := order.NewOrder("123", "c1", []order.OrderItem{newItem(t, "1", 10, 4)})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, o))

	found, err := repo.Find(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, 40.0, found.Total())

	require.NoError(t, found.AddItem(newItem(t, "2", 20, 1)))
	require.NoError(t, repo.Update(ctx, found))

	found, err = repo.Find(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, 60.0, found.Total())
	assert.Equal(t, 2, found.ItemCount())

	assert.ErrorIs(t, repo.Update(ctx, o), shared.ErrConflict)

	other, err := order.NewOrder("456", "c2", []order.OrderItem{newItem(t, "1", 5, 1)})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCustomer, err := repo.FindByCustomerID(ctx, "c2")
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, "456", byCustomer[0].ID())

	_, err = repo.Find(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRepositoryHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCustomerRepository(NewStore()).Find(ctx, "123")
	assert.ErrorIs(t, err, context.Canceled)
}
