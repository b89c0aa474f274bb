package order

import "time"

// PlaceOrderRequest 表示下单入参；OrderID 为空时自动生成
type PlaceOrderRequest struct {
	OrderID    string             `json:"order_id"`
	CustomerID string             `json:"customer_id"`
	Items      []OrderItemRequest `json:"items"`
}

// OrderItemRequest 表示下单时的单个商品项，名称和单价取自商品
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddItemRequest 向已有订单追加商品
type AddItemRequest struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ChangeItemQuantityRequest 修改订单项数量
type ChangeItemQuantityRequest struct {
	OrderID  string `json:"order_id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// RemoveItemRequest 删除订单项
type RemoveItemRequest struct {
	OrderID string `json:"order_id"`
	ItemID  string `json:"item_id"`
}

// OrderResponse 表示订单返回模型。
type OrderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customer_id"`
	Items      []OrderItemResponse `json:"items"`
	Total      float64             `json:"total"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// OrderItemResponse 表示订单项返回模型。
type OrderItemResponse struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Price     float64 `json:"price"`
}

// PlaceOrderResponse 下单结果，包含本次奖励的积分
type PlaceOrderResponse struct {
	Order        *OrderResponse `json:"order"`
	RewardPoints int            `json:"reward_points"`
}
