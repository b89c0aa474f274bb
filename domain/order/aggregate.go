/*
Package order 订单子域

Order 是聚合根，OrderItem 只能通过 Order 加入、替换或移除。
不变量：
1. id、customerID 非空
2. 至少一个订单项，每项数量大于 0，订单项 id 不重复
3. total 始终等于各订单项 Price() 之和

修改方法先在副本上校验，通过后才提交；失败时订单保持原样。
*/
package order

import (
	"time"

	"ddd-shop/domain/shared"
)

// Order 订单聚合根
type Order struct {
	id         string
	customerID string
	items      []OrderItem
	total      float64
	version    int // 乐观锁版本号，由仓储在保存成功后递增
	createdAt  time.Time
	updatedAt  time.Time

	shared.EventRecorder
}

// NewOrder 创建新订单并记录 order.placed
func NewOrder(id, customerID string, items []OrderItem) (*Order, error) {
	if id == "" {
		return nil, newValidationError("id", ErrInvalidID)
	}
	if customerID == "" {
		return nil, newValidationError("customerId", ErrInvalidCustomerID)
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	now := time.Now()
	o := &Order{
		id:         id,
		customerID: customerID,
		items:      cloneItems(items),
		createdAt:  now,
		updatedAt:  now,
	}
	o.total = calculateTotal(o.items)
	o.Record(NewOrderPlacedEvent(o.id, o.customerID, o.total, len(o.items)))

	return o, nil
}

func validateItems(items []OrderItem) error {
	if len(items) == 0 {
		return newValidationError("items", ErrEmptyOrderItems)
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.id == "" {
			return newValidationError("items", ErrInvalidItem)
		}
		if _, dup := seen[item.id]; dup {
			return newValidationError("items", ErrInvalidItem)
		}
		seen[item.id] = struct{}{}

		if item.quantity <= 0 {
			return newValidationError("quantity", ErrInvalidQuantity)
		}
	}
	return nil
}

func calculateTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price()
	}
	return total
}

func cloneItems(items []OrderItem) []OrderItem {
	out := make([]OrderItem, len(items))
	copy(out, items)
	return out
}

// commit 校验候选订单项，通过后替换并重新计算 total
func (o *Order) commit(candidate []OrderItem) error {
	if err := validateItems(candidate); err != nil {
		return err
	}
	o.items = candidate
	o.total = calculateTotal(candidate)
	o.updatedAt = time.Now()
	return nil
}

// ============================================================================
// 聚合根行为方法
// ============================================================================

// AddItem 追加订单项
func (o *Order) AddItem(item OrderItem) error {
	candidate := append(cloneItems(o.items), item)
	return o.commit(candidate)
}

// UpdateItem 按 id 替换订单项，id 不存在时返回 ErrItemNotFound
func (o *Order) UpdateItem(item OrderItem) error {
	idx := o.indexOf(item.id)
	if idx < 0 {
		return newValidationError("items", ErrItemNotFound)
	}

	candidate := cloneItems(o.items)
	candidate[idx] = item
	return o.commit(candidate)
}

// RemoveItem 按 id 移除订单项；不能移除最后一个订单项
func (o *Order) RemoveItem(itemID string) error {
	idx := o.indexOf(itemID)
	if idx < 0 {
		return newValidationError("items", ErrItemNotFound)
	}

	candidate := make([]OrderItem, 0, len(o.items)-1)
	candidate = append(candidate, o.items[:idx]...)
	candidate = append(candidate, o.items[idx+1:]...)
	return o.commit(candidate)
}

func (o *Order) indexOf(itemID string) int {
	for i, item := range o.items {
		if item.id == itemID {
			return i
		}
	}
	return -1
}

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string           { return o.id }
func (o *Order) CustomerID() string   { return o.customerID }
func (o *Order) Total() float64       { return o.total }
func (o *Order) ItemCount() int       { return len(o.items) }
func (o *Order) Version() int         { return o.version }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// Items 返回订单项副本
func (o *Order) Items() []OrderItem {
	return cloneItems(o.items)
}

// Item 按 id 查找订单项
func (o *Order) Item(itemID string) (OrderItem, bool) {
	idx := o.indexOf(itemID)
	if idx < 0 {
		return OrderItem{}, false
	}
	return o.items[idx], true
}

// IncrementVersionForSave 仓储在乐观锁更新成功后调用
func (o *Order) IncrementVersionForSave() {
	o.version++
}

// ============================================================================
// ReconstructionDTO - 仅供仓储层使用
// ============================================================================

// ReconstructionDTO 订单重建数据
// ⚠️ 仅应在仓储实现中使用
type ReconstructionDTO struct {
	ID         string
	CustomerID string
	Items      []ItemReconstructionDTO
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RebuildFromDTO 从持久化数据重建订单，total 由订单项重新计算，不记录事件
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	items := make([]OrderItem, len(dto.Items))
	for i, item := range dto.Items {
		items[i] = RebuildItemFromDTO(item)
	}

	return &Order{
		id:         dto.ID,
		customerID: dto.CustomerID,
		items:      items,
		total:      calculateTotal(items),
		version:    dto.Version,
		createdAt:  dto.CreatedAt,
		updatedAt:  dto.UpdatedAt,
	}
}

// ToDTO 导出持久化所需的全部状态
func (o *Order) ToDTO() ReconstructionDTO {
	items := make([]ItemReconstructionDTO, len(o.items))
	for i, item := range o.items {
		items[i] = item.ToDTO()
	}

	return ReconstructionDTO{
		ID:         o.id,
		CustomerID: o.customerID,
		Items:      items,
		Version:    o.version,
		CreatedAt:  o.createdAt,
		UpdatedAt:  o.updatedAt,
	}
}

var _ shared.AggregateRoot = (*Order)(nil)
