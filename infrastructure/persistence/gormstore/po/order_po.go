package po

import (
	"time"

	"ddd-shop/domain/order"
)

// OrderPO 订单持久化对象
// 不定义 GORM 关联，订单项由仓储手动读写以保持聚合边界
type OrderPO struct {
	ID         string    `gorm:"primaryKey;size:64"`
	CustomerID string    `gorm:"size:64;index;not null"` // 只保存 ID，不与 Customer 关联
	Total      float64   `gorm:"not null"`
	Version    int       `gorm:"default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO 订单项持久化对象
// unit_price 为单价，price 为 单价 × 数量；重建时只使用 unit_price
type OrderItemPO struct {
	ID        string  `gorm:"primaryKey;size:64"`
	OrderID   string  `gorm:"primaryKey;size:64;index"`
	ProductID string  `gorm:"size:64;not null"`
	Name      string  `gorm:"size:255"`
	UnitPrice float64 `gorm:"not null"`
	Quantity  int     `gorm:"not null"`
	Price     float64 `gorm:"not null"`
	Position  int     `gorm:"not null;default:0"`
}

func (OrderItemPO) TableName() string {
	return "order_items"
}

func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	orderPO := &OrderPO{
		ID:         o.ID(),
		CustomerID: o.CustomerID(),
		Total:      o.Total(),
		Version:    o.Version(),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}

	items := o.Items()
	itemPOs := make([]OrderItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = OrderItemPO{
			ID:        item.ID(),
			OrderID:   o.ID(),
			ProductID: item.ProductID(),
			Name:      item.Name(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity(),
			Price:     item.Price(),
			Position:  i,
		}
	}

	return orderPO, itemPOs
}

// ToDomain itemPOs 需按 position 排序
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO) *order.Order {
	items := make([]order.ItemReconstructionDTO, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = order.ItemReconstructionDTO{
			ID:        itemPO.ID,
			Name:      itemPO.Name,
			ProductID: itemPO.ProductID,
			UnitPrice: itemPO.UnitPrice,
			Quantity:  itemPO.Quantity,
		}
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:         po.ID,
		CustomerID: po.CustomerID,
		Items:      items,
		Version:    po.Version,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	})
}
