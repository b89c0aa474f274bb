/*
Package order - 订单领域错误定义

哨兵错误通过 shared.NewValidationError 包装为带堆栈的领域错误，
因此 errors.Is(err, ErrInvalidQuantity) 与 errors.Is(err, shared.ErrInvalidInput) 均成立。
*/
package order

import (
	"errors"

	"ddd-shop/domain/shared"
)

const entityName = "order"

var (
	// ErrInvalidID 订单 id 为空
	ErrInvalidID = errors.New("id is required")

	// ErrInvalidCustomerID 客户 id 为空
	ErrInvalidCustomerID = errors.New("customerId is required")

	// ErrEmptyOrderItems 订单项为空
	ErrEmptyOrderItems = errors.New("items are required")

	// ErrInvalidQuantity 订单项数量必须大于 0
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")

	// ErrItemNotFound 订单项不存在
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidItem 订单项 id 缺失或重复
	ErrInvalidItem = errors.New("item is invalid")

	// 订单项字段错误
	ErrInvalidItemID        = errors.New("item id is required")
	ErrInvalidItemProductID = errors.New("item productId is required")
	ErrInvalidItemPrice     = errors.New("item price must not be negative")

	// ErrCustomerRequired 下单时必须提供客户
	ErrCustomerRequired = errors.New("customer is required")
)

// NewOrderNotFoundError 创建订单未找到错误（带堆栈）
func NewOrderNotFoundError(orderID string) error {
	return shared.NewNotFoundError(entityName, orderID)
}

// NewConcurrentModificationError 乐观锁冲突
func NewConcurrentModificationError(orderID string) error {
	return shared.NewConcurrentModificationError(entityName, orderID)
}

func newValidationError(field string, sentinel error) error {
	return shared.NewValidationError(entityName, field, sentinel)
}
