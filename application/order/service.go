/*
Package order 订单用例编排

应用层职责：
1. 接收外部请求
2. 通过仓储加载聚合，调用领域服务与聚合方法
3. 使用工作单元管理事务与事件收集（Outbox）
4. 返回结果

应用服务不直接发布事件：
- 工作单元在提交前把聚合事件写入 outbox
- 提交后交给进程内分发器；outbox worker 负责对外转发
*/
package order

import (
	"context"

	"ddd-shop/domain/customer"
	"ddd-shop/domain/order"
	"ddd-shop/domain/product"
	"ddd-shop/domain/shared"

	"github.com/google/uuid"
)

// ApplicationService 订单应用服务
type ApplicationService struct {
	orderRepo    order.Repository
	customerRepo customer.Repository
	catalog      *productCatalogAdapter
	uowFactory   shared.UnitOfWorkFactory
}

func NewApplicationService(
	orderRepo order.Repository,
	customerRepo customer.Repository,
	productRepo product.Repository,
	uowFactory shared.UnitOfWorkFactory,
) *ApplicationService {
	return &ApplicationService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		catalog:      &productCatalogAdapter{productRepo: productRepo},
		uowFactory:   uowFactory,
	}
}

// PlaceOrder 下单：创建订单并给客户奖励积分，两者在同一个工作单元内保存
func (s *ApplicationService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	orderID := req.OrderID
	if orderID == "" {
		orderID = uuid.NewString()
	}

	var (
		o      *order.Order
		points int
	)
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		c, err := s.customerRepo.Find(ctx, req.CustomerID)
		if err != nil {
			return err
		}

		items, err := s.catalog.newItems(ctx, req.Items)
		if err != nil {
			return err
		}

		before := c.RewardPoints()
		o, err = order.PlaceOrder(c, orderID, items)
		if err != nil {
			return err
		}
		points = c.RewardPoints() - before

		if err := s.orderRepo.Create(ctx, o); err != nil {
			return err
		}
		if err := s.customerRepo.Update(ctx, c); err != nil {
			return err
		}

		uow.RegisterNew(o)
		uow.RegisterDirty(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &PlaceOrderResponse{Order: toOrderResponse(o), RewardPoints: points}, nil
}

// AddItem 追加商品，单价取当前商品价格
func (s *ApplicationService) AddItem(ctx context.Context, req AddItemRequest) (*OrderResponse, error) {
	return s.modify(ctx, req.OrderID, func(ctx context.Context, o *order.Order) error {
		item, err := s.catalog.newItem(ctx, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}
		return o.AddItem(item)
	})
}

func (s *ApplicationService) ChangeItemQuantity(ctx context.Context, req ChangeItemQuantityRequest) (*OrderResponse, error) {
	return s.modify(ctx, req.OrderID, func(_ context.Context, o *order.Order) error {
		item, ok := o.Item(req.ItemID)
		if !ok {
			return shared.NewValidationError("order", "items", order.ErrItemNotFound)
		}
		return o.UpdateItem(item.WithQuantity(req.Quantity))
	})
}

// RemoveItem 删除订单项；不能删除最后一项
func (s *ApplicationService) RemoveItem(ctx context.Context, req RemoveItemRequest) (*OrderResponse, error) {
	return s.modify(ctx, req.OrderID, func(_ context.Context, o *order.Order) error {
		return o.RemoveItem(req.ItemID)
	})
}

func (s *ApplicationService) modify(ctx context.Context, orderID string, change func(ctx context.Context, o *order.Order) error) (*OrderResponse, error) {
	var o *order.Order
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orderRepo.Find(ctx, orderID)
		if err != nil {
			return err
		}

		if err := change(ctx, o); err != nil {
			return err
		}

		if err := s.orderRepo.Update(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toOrderResponse(o), nil
}

func (s *ApplicationService) GetOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	o, err := s.orderRepo.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

func (s *ApplicationService) ListOrders(ctx context.Context) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// CustomerOrders 客户的全部订单及其总额
func (s *ApplicationService) CustomerOrders(ctx context.Context, customerID string) ([]*OrderResponse, float64, error) {
	orders, err := s.orderRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, 0, err
	}
	return toOrderResponses(orders), order.TotalOf(orders), nil
}
