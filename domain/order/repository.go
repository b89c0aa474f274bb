package order

import (
	"context"

	"ddd-shop/domain/shared"
)

// Repository 订单仓储接口
// Create 同时写入订单项；Update 在同一事务内重写订单项并更新 total
type Repository interface {
	shared.Repository[*Order]

	// FindByCustomerID 查询客户的全部订单
	FindByCustomerID(ctx context.Context, customerID string) ([]*Order, error)
}

// QueryService 读模型查询接口（CQRS 的 Q 端）
// 直接返回扁平的读模型，不经过聚合重建
type QueryService interface {
	// OrderSummaries 订单摘要，按创建时间倒序
	OrderSummaries(ctx context.Context, criteria SearchCriteria) ([]Summary, error)

	// CustomerStats 单个客户的订单统计
	CustomerStats(ctx context.Context, customerID string) (CustomerStats, error)
}

// SearchCriteria 订单摘要查询条件
type SearchCriteria struct {
	CustomerID string
	MinTotal   float64
	Page       int
	PageSize   int
}

// Summary 订单摘要读模型
type Summary struct {
	OrderID    string  `db:"order_id"`
	CustomerID string  `db:"customer_id"`
	Total      float64 `db:"total"`
	ItemCount  int     `db:"item_count"`
	Quantity   int     `db:"quantity"`
}

// CustomerStats 客户订单统计读模型
type CustomerStats struct {
	CustomerID string  `db:"customer_id"`
	OrderCount int     `db:"order_count"`
	TotalSpent float64 `db:"total_spent"`
}
