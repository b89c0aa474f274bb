package order

import (
	"context"

	"ddd-shop/domain/order"
	"ddd-shop/domain/product"

	"github.com/google/uuid"
)

// productCatalogAdapter 将 product.Repository 适配为下单时需要的商品查询
// 订单项的名称和单价取自下单时刻的商品
type productCatalogAdapter struct {
	productRepo product.Repository
}

func (a *productCatalogAdapter) newItem(ctx context.Context, productID string, quantity int) (order.OrderItem, error) {
	p, err := a.productRepo.Find(ctx, productID)
	if err != nil {
		return order.OrderItem{}, err
	}
	return order.NewOrderItem(uuid.NewString(), p.Name(), p.ID(), p.Price(), quantity)
}

func (a *productCatalogAdapter) newItems(ctx context.Context, lines []OrderItemRequest) ([]order.OrderItem, error) {
	items := make([]order.OrderItem, len(lines))
	for i, line := range lines {
		item, err := a.newItem(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}
