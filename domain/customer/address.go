package customer

import (
	"fmt"

	"ddd-shop/domain/shared"
)

// Address 值对象 - 不可变，没有标识
// 只能通过 NewAddress 创建；修改时由客户整体替换（ChangeAddress）
// 零值 Address{} 表示"没有地址"
type Address struct {
	street string
	number int
	zip    string
	city   string
}

// NewAddress 创建并校验地址
func NewAddress(street string, number int, zip, city string) (Address, error) {
	if street == "" {
		return Address{}, shared.NewValidationError("address", "street", ErrStreetRequired)
	}
	if number == 0 {
		return Address{}, shared.NewValidationError("address", "number", ErrNumberRequired)
	}
	if zip == "" {
		return Address{}, shared.NewValidationError("address", "zip", ErrZipRequired)
	}
	if city == "" {
		return Address{}, shared.NewValidationError("address", "city", ErrCityRequired)
	}

	return Address{
		street: street,
		number: number,
		zip:    zip,
		city:   city,
	}, nil
}

func (a Address) Street() string { return a.street }
func (a Address) Number() int    { return a.number }
func (a Address) Zip() string    { return a.zip }
func (a Address) City() string   { return a.city }

// IsZero 是否为"没有地址"
func (a Address) IsZero() bool {
	return a == Address{}
}

// Equals 按值比较
func (a Address) Equals(other Address) bool {
	return a == other
}

// String 实现 Stringer 接口
func (a Address) String() string {
	return fmt.Sprintf("%s, %d, %s %s", a.street, a.number, a.zip, a.city)
}
