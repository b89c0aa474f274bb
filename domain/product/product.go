/*
Package product 商品子域

Product 不变量：id、name 非空，price 为有限值且 >= 0。
*/
package product

import (
	"math"
	"time"

	"ddd-shop/domain/shared"
)

// Product 商品聚合根
type Product struct {
	id        string
	name      string
	price     float64
	version   int
	createdAt time.Time
	updatedAt time.Time

	shared.EventRecorder
}

// NewProduct 创建商品并记录 product.created
func NewProduct(id, name string, price float64) (*Product, error) {
	if err := validate(id, name, price); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Product{
		id:        id,
		name:      name,
		price:     price,
		createdAt: now,
		updatedAt: now,
	}
	p.Record(NewCreatedEvent(id, name, price))

	return p, nil
}

func validate(id, name string, price float64) error {
	if id == "" {
		return newValidationError("id", ErrInvalidID)
	}
	if name == "" {
		return newValidationError("name", ErrInvalidName)
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return newValidationError("price", ErrInvalidPrice)
	}
	return nil
}

// ChangeName 修改名称
func (p *Product) ChangeName(name string) error {
	if err := validate(p.id, name, p.price); err != nil {
		return err
	}
	p.name = name
	p.updatedAt = time.Now()
	return nil
}

// ChangePrice 修改价格，价格有变化时记录 product.price_changed
func (p *Product) ChangePrice(price float64) error {
	if err := validate(p.id, p.name, price); err != nil {
		return err
	}
	if price == p.price {
		return nil
	}

	old := p.price
	p.price = price
	p.updatedAt = time.Now()
	p.Record(NewPriceChangedEvent(p.id, old, price))
	return nil
}

func (p *Product) ID() string           { return p.id }
func (p *Product) Name() string         { return p.name }
func (p *Product) Price() float64       { return p.price }
func (p *Product) Version() int         { return p.version }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// IncrementVersionForSave 仓储在乐观锁更新成功后调用
func (p *Product) IncrementVersionForSave() {
	p.version++
}

// ReconstructionDTO 商品重建数据（仅供仓储使用）
type ReconstructionDTO struct {
	ID        string
	Name      string
	Price     float64
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RebuildFromDTO 从持久化数据重建商品，不记录事件
func RebuildFromDTO(dto ReconstructionDTO) *Product {
	return &Product{
		id:        dto.ID,
		name:      dto.Name,
		price:     dto.Price,
		version:   dto.Version,
		createdAt: dto.CreatedAt,
		updatedAt: dto.UpdatedAt,
	}
}

func (p *Product) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:        p.id,
		Name:      p.name,
		Price:     p.price,
		Version:   p.version,
		CreatedAt: p.createdAt,
		UpdatedAt: p.updatedAt,
	}
}

var _ shared.AggregateRoot = (*Product)(nil)
