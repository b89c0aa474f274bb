/*
Package customer 定义客户领域错误。
*/
package customer

import (
	"errors"

	"ddd-shop/domain/shared"
)

const entityName = "customer"

var (
	ErrInvalidID            = errors.New("id is required")
	ErrInvalidName          = errors.New("name is required")
	ErrInvalidAddress       = errors.New("address is invalid")
	ErrAddressRequired      = errors.New("address is mandatory to activate a customer")
	ErrNegativeRewardPoints = errors.New("reward points must not be negative")

	// Address 字段错误
	ErrStreetRequired = errors.New("street is required")
	ErrNumberRequired = errors.New("number is required")
	ErrZipRequired    = errors.New("zip is required")
	ErrCityRequired   = errors.New("city is required")
)

// NewCustomerNotFoundError 仓储在记录不存在时返回
func NewCustomerNotFoundError(id string) error {
	return shared.NewNotFoundError(entityName, id)
}

// NewConcurrentModificationError 版本不匹配（乐观锁冲突）
func NewConcurrentModificationError(id string) error {
	return shared.NewConcurrentModificationError(entityName, id)
}

func newValidationError(field string, sentinel error) error {
	return shared.NewValidationError(entityName, field, sentinel)
}
