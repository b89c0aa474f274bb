package order

import "ddd-shop/domain/customer"

// ============================================================================
// 领域服务 - 跨聚合的业务规则
// ============================================================================
//
// 领域服务只修改内存中的聚合，持久化由应用服务通过工作单元完成

// PlaceOrder 为客户下单，并按订单总额的一半（取整）奖励积分
func PlaceOrder(c *customer.Customer, orderID string, items []OrderItem) (*Order, error) {
	if c == nil {
		return nil, newValidationError("customer", ErrCustomerRequired)
	}

	o, err := NewOrder(orderID, c.ID(), items)
	if err != nil {
		return nil, err
	}

	if err := c.AddRewardPoints(RewardPointsFor(o.Total())); err != nil {
		return nil, err
	}

	return o, nil
}

// RewardPointsFor 下单奖励积分：total / 2，向下取整
func RewardPointsFor(total float64) int {
	if total <= 0 {
		return 0
	}
	return int(total / 2)
}

// TotalOf 多个订单的总额
func TotalOf(orders []*Order) float64 {
	var total float64
	for _, o := range orders {
		total += o.Total()
	}
	return total
}
