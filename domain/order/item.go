package order

import "math"

// OrderItem 订单项 - 聚合内的值
// 只能通过 Order 聚合根加入订单；修改数量使用 WithQuantity 得到新值再 UpdateItem
//
// unitPrice 是单价，Price() 返回的是 单价 × 数量
type OrderItem struct {
	id        string
	name      string
	productID string
	unitPrice float64
	quantity  int
}

// NewOrderItem 创建订单项
// 数量是否大于 0 由 Order 在接收订单项时校验
func NewOrderItem(id, name, productID string, unitPrice float64, quantity int) (OrderItem, error) {
	if id == "" {
		return OrderItem{}, newValidationError("item.id", ErrInvalidItemID)
	}
	if productID == "" {
		return OrderItem{}, newValidationError("item.productId", ErrInvalidItemProductID)
	}
	if unitPrice < 0 || math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		return OrderItem{}, newValidationError("item.price", ErrInvalidItemPrice)
	}

	return OrderItem{
		id:        id,
		name:      name,
		productID: productID,
		unitPrice: unitPrice,
		quantity:  quantity,
	}, nil
}

func (i OrderItem) ID() string         { return i.id }
func (i OrderItem) Name() string       { return i.name }
func (i OrderItem) ProductID() string  { return i.productID }
func (i OrderItem) UnitPrice() float64 { return i.unitPrice }
func (i OrderItem) Quantity() int      { return i.quantity }

// Price 单价 × 数量
func (i OrderItem) Price() float64 {
	return i.unitPrice * float64(i.quantity)
}

// WithQuantity 返回数量替换后的副本
func (i OrderItem) WithQuantity(quantity int) OrderItem {
	i.quantity = quantity
	return i
}

// ItemReconstructionDTO 订单项重建数据（仅供仓储使用）
type ItemReconstructionDTO struct {
	ID        string
	Name      string
	ProductID string
	UnitPrice float64
	Quantity  int
}

// RebuildItemFromDTO 从持久化数据重建订单项，不做校验
func RebuildItemFromDTO(dto ItemReconstructionDTO) OrderItem {
	return OrderItem{
		id:        dto.ID,
		name:      dto.Name,
		productID: dto.ProductID,
		unitPrice: dto.UnitPrice,
		quantity:  dto.Quantity,
	}
}

func (i OrderItem) ToDTO() ItemReconstructionDTO {
	return ItemReconstructionDTO{
		ID:        i.id,
		Name:      i.name,
		ProductID: i.productID,
		UnitPrice: i.unitPrice,
		Quantity:  i.quantity,
	}
}
