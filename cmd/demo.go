package cmd

import (
	"context"

	customerapp "ddd-shop/application/customer"
	orderapp "ddd-shop/application/order"
	productapp "ddd-shop/application/product"
	"ddd-shop/pkg/logger"

	"go.uber.org/zap"
)

// DemoResult 演示流程的结果
type DemoResult struct {
	CustomerID   string           `json:"customer_id"`
	OrderID      string           `json:"order_id"`
	OrderTotal   float64          `json:"order_total"`
	RewardPoints int              `json:"reward_points"`
	Summary      *CustomerSummary `json:"summary"`
}

// RunDemo 走一遍完整流程：建商品、注册并激活客户、下单、追加商品、调价、汇总
func (a *App) RunDemo(ctx context.Context) (*DemoResult, error) {
	log := a.logger.Named("demo").With(logger.ContextFields(ctx)...)

	p1, err := a.Products.CreateProduct(ctx, productapp.CreateProductRequest{Name: "Product 1", Price: 10})
	if err != nil {
		return nil, err
	}
	p2, err := a.Products.CreateProduct(ctx, productapp.CreateProductRequest{Name: "Product 2", Price: 20})
	if err != nil {
		return nil, err
	}

	c, err := a.Customers.RegisterCustomer(ctx, customerapp.RegisterCustomerRequest{
		Name:    "Customer 1",
		Address: &customerapp.AddressRequest{Street: "Street 1", Number: 123, Zip: "13330-250", City: "São Paulo"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := a.Customers.ActivateCustomer(ctx, c.ID); err != nil {
		return nil, err
	}
	log.Info("Customer ready", zap.String("customer_id", c.ID))

	placed, err := a.Orders.PlaceOrder(ctx, orderapp.PlaceOrderRequest{
		CustomerID: c.ID,
		Items:      []orderapp.OrderItemRequest{{ProductID: p1.ID, Quantity: 4}},
	})
	if err != nil {
		return nil, err
	}
	log.Info("Order placed",
		zap.String("order_id", placed.Order.ID),
		zap.Float64("total", placed.Order.Total),
		zap.Int("reward_points", placed.RewardPoints))

	updated, err := a.Orders.AddItem(ctx, orderapp.AddItemRequest{OrderID: placed.Order.ID, ProductID: p2.ID, Quantity: 1})
	if err != nil {
		return nil, err
	}
	log.Info("Item added", zap.String("order_id", updated.ID), zap.Float64("total", updated.Total))

	// 调价不影响已下订单的单价
	if _, err := a.Products.IncreaseAllPrices(ctx, 10); err != nil {
		return nil, err
	}

	summary, err := a.Summary(ctx, c.ID, 5)
	if err != nil {
		return nil, err
	}

	return &DemoResult{
		CustomerID:   c.ID,
		OrderID:      updated.ID,
		OrderTotal:   updated.Total,
		RewardPoints: placed.RewardPoints,
		Summary:      summary,
	}, nil
}
