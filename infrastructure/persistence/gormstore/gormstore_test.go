package gormstore

import (
	"context"
	"testing"

	"ddd-shop/config"
	"ddd-shop/domain/customer"
	"ddd-shop/domain/order"
	"ddd-shop/domain/product"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB 每个测试一个独立的 sqlite 内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &Config{Type: config.DatabaseSQLite, Path: ":memory:", LogLevel: "silent"}
	db, err := cfg.Connect()
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() { _ = Close(db) })
	return db
}

func newCustomer(t *testing.T, id, name string) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(id, name)
	require.NoError(t, err)
	return c
}

func newProduct(t *testing.T, id, name string, price float64) *product.Product {
	t.Helper()
	p, err := product.NewProduct(id, name, price)
	require.NoError(t, err)
	return p
}

func newItem(t *testing.T, id, productID string, unitPrice float64, quantity int) order.OrderItem {
	t.Helper()
	item, err := order.NewOrderItem(id, "Item "+id, productID, unitPrice, quantity)
	require.NoError(t, err)
	return item
}

func ctx() context.Context {
	return context.Background()
}
