package product

import (
	"errors"

	"ddd-shop/domain/shared"
)

const entityName = "product"

var (
	ErrInvalidID    = errors.New("id is required")
	ErrInvalidName  = errors.New("name is required")
	ErrInvalidPrice = errors.New("price must be greater than or equal to zero")

	// ErrInvalidPercentage 调价百分比不能让价格变为负数
	ErrInvalidPercentage = errors.New("percentage must not be lower than -100")
)

// NewProductNotFoundError 创建商品未找到错误
func NewProductNotFoundError(id string) error {
	return shared.NewNotFoundError(entityName, id)
}

// NewConcurrentModificationError 版本不匹配（乐观锁冲突）
func NewConcurrentModificationError(id string) error {
	return shared.NewConcurrentModificationError(entityName, id)
}

func newValidationError(field string, sentinel error) error {
	return shared.NewValidationError(entityName, field, sentinel)
}
