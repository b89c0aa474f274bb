package order

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"ddd-shop/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, id string, unitPrice float64, quantity int) OrderItem {
	t.Helper()
	item, err := NewOrderItem(id, "Item "+id, "p-"+id, unitPrice, quantity)
	require.NoError(t, err)
	return item
}

func TestNewOrderValidation(t *testing.T) {
	valid := func(t *testing.T) []OrderItem {
		return []OrderItem{mustItem(t, "i1", 100, 1)}
	}

	tests := []struct {
		name       string
		id         string
		customerID string
		items      func(t *testing.T) []OrderItem
		wantErr    error
	}{
		{"empty id", "", "123", valid, ErrInvalidID},
		{"empty customer id", "123", "", valid, ErrInvalidCustomerID},
		{"no items", "123", "123", func(*testing.T) []OrderItem { return nil }, ErrEmptyOrderItems},
		{"zero quantity", "123", "123", func(t *testing.T) []OrderItem {
			return []OrderItem{mustItem(t, "i1", 100, 0)}
		}, ErrInvalidQuantity},
		{"duplicate item ids", "123", "123", func(t *testing.T) []OrderItem {
			return []OrderItem{mustItem(t, "i1", 100, 1), mustItem(t, "i1", 50, 1)}
		}, ErrInvalidItem},
		{"zero value item", "123", "123", func(*testing.T) []OrderItem {
			return []OrderItem{{}}
		}, ErrInvalidItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewOrder(tt.id, tt.customerID, tt.items(t))
			assert.Nil(t, o)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestNewOrderItemValidation(t *testing.T) {
	_, err := NewOrderItem("", "Item", "p1", 10, 1)
	assert.ErrorIs(t, err, ErrInvalidItemID)

	_, err = NewOrderItem("i1", "Item", "", 10, 1)
	assert.ErrorIs(t, err, ErrInvalidItemProductID)

	for _, price := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = NewOrderItem("i1", "Item", "p1", price, 1)
		assert.ErrorIs(t, err, ErrInvalidItemPrice, "price %v", price)
	}
}

func TestOrder_Total(t *testing.T) {
	item1 := mustItem(t, "i1", 100, 2)
	item2 := mustItem(t, "i2", 200, 2)

	o, err := NewOrder("o1", "c1", []OrderItem{item1})
	require.NoError(t, err)
	assert.Equal(t, 200.0, o.Total())

	o2, err := NewOrder("o2", "c1", []OrderItem{item1, item2})
	require.NoError(t, err)
	assert.Equal(t, 600.0, o2.Total())
}

func TestOrder_PlacedEvent(t *testing.T) {
	o, err := NewOrder("o1", "c1", []OrderItem{mustItem(t, "i1", 10, 2)})
	require.NoError(t, err)

	events := o.PullEvents()
	require.Len(t, events, 1)
	placed, ok := events[0].(*OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, EventPlaced, placed.EventName())
	assert.Equal(t, "o1", placed.GetAggregateID())
	assert.Equal(t, "c1", placed.CustomerID())
	assert.Equal(t, 20.0, placed.Total())
}

func TestOrder_AddItem(t *testing.T) {
	o, err := NewOrder("123", "123", []OrderItem{mustItem(t, "i1", 10, 2)})
	require.NoError(t, err)
	assert.Equal(t, 20.0, o.Total())

	require.NoError(t, o.AddItem(mustItem(t, "i2", 15, 1)))
	assert.Equal(t, 35.0, o.Total())
	assert.Equal(t, 2, o.ItemCount())
}

func TestOrder_AddItemFailureLeavesOrderUnchanged(t *testing.T) {
	o, err := NewOrder("123", "123", []OrderItem{mustItem(t, "i1", 10, 2)})
	require.NoError(t, err)

	err = o.AddItem(mustItem(t, "i2", 15, 0))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	err = o.AddItem(mustItem(t, "i1", 15, 1))
	assert.ErrorIs(t, err, ErrInvalidItem)

	assert.Equal(t, 1, o.ItemCount())
	assert.Equal(t, 20.0, o.Total())
}

func TestOrder_UpdateItem(t *testing.T) {
	o, err := NewOrder("o1", "c1", []OrderItem{mustItem(t, "i1", 10, 2), mustItem(t, "i2", 20, 1)})
	require.NoError(t, err)

	item, ok := o.Item("i1")
	require.True(t, ok)
	require.NoError(t, o.UpdateItem(item.WithQuantity(5)))

	updated, _ := o.Item("i1")
	assert.Equal(t, 5, updated.Quantity())
	assert.Equal(t, 70.0, o.Total())

	err = o.UpdateItem(item.WithQuantity(0))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 70.0, o.Total())

	err = o.UpdateItem(mustItem(t, "missing", 1, 1))
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, 2, o.ItemCount())
}

func TestOrder_RemoveItem(t *testing.T) {
	o, err := NewOrder("o1", "c1", []OrderItem{mustItem(t, "i1", 10, 2), mustItem(t, "i2", 20, 1)})
	require.NoError(t, err)

	require.NoError(t, o.RemoveItem("i1"))
	assert.Equal(t, 1, o.ItemCount())
	assert.Equal(t, 20.0, o.Total())

	err = o.RemoveItem("i2")
	assert.ErrorIs(t, err, ErrEmptyOrderItems)
	assert.Equal(t, 1, o.ItemCount())

	err = o.RemoveItem("missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestOrder_ItemsReturnsCopy(t *testing.T) {
	o, err := NewOrder("o1", "c1", []OrderItem{mustItem(t, "i1", 10, 2)})
	require.NoError(t, err)

	items := o.Items()
	items[0] = items[0].WithQuantity(100)

	assert.Equal(t, 20.0, o.Total())
	stored, _ := o.Item("i1")
	assert.Equal(t, 2, stored.Quantity())
}

// 随机订单项：total 恒等于 Σ 单价 × 数量，UpdateItem 只替换一项的贡献
func TestOrder_TotalMatchesExtendedPrices(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := rng.Intn(5) + 1
		items := make([]OrderItem, n)
		var want float64
		for i := range items {
			unit := float64(rng.Intn(1000))
			qty := rng.Intn(9) + 1
			items[i] = mustItem(t, fmt.Sprintf("i%d", i), unit, qty)
			want += unit * float64(qty)
		}

		o, err := NewOrder("o", "c", items)
		require.NoError(t, err)
		assert.InDelta(t, want, o.Total(), 1e-9)

		target := items[rng.Intn(n)]
		newQty := rng.Intn(9) + 1
		require.NoError(t, o.UpdateItem(target.WithQuantity(newQty)))

		want += target.UnitPrice() * float64(newQty-target.Quantity())
		assert.InDelta(t, want, o.Total(), 1e-9)
	}
}

func TestRebuildFromDTO(t *testing.T) {
	o := RebuildFromDTO(ReconstructionDTO{
		ID:         "o1",
		CustomerID: "c1",
		Items: []ItemReconstructionDTO{
			{ID: "i1", Name: "Item 1", ProductID: "p1", UnitPrice: 10, Quantity: 4},
			{ID: "i2", Name: "Item 2", ProductID: "p2", UnitPrice: 20, Quantity: 1},
		},
		Version: 3,
	})

	assert.Equal(t, 60.0, o.Total())
	assert.Equal(t, 3, o.Version())
	assert.Empty(t, o.PullEvents())
}
