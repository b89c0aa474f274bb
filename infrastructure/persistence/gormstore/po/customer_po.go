package po

import (
	"time"

	"ddd-shop/domain/customer"
)

// CustomerPO 客户持久化对象，地址按列展开
type CustomerPO struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Name         string    `gorm:"size:255;not null"`
	Street       string    `gorm:"size:255"`
	Number       int       `gorm:"not null;default:0"`
	Zipcode      string    `gorm:"size:32"`
	City         string    `gorm:"size:128"`
	Active       bool      `gorm:"not null;default:false"`
	RewardPoints int       `gorm:"not null;default:0"`
	Version      int       `gorm:"default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (CustomerPO) TableName() string {
	return "customers"
}

func FromCustomerDomain(c *customer.Customer) *CustomerPO {
	dto := c.ToDTO()
	return &CustomerPO{
		ID:           dto.ID,
		Name:         dto.Name,
		Street:       dto.Street,
		Number:       dto.Number,
		Zipcode:      dto.Zip,
		City:         dto.City,
		Active:       dto.Active,
		RewardPoints: dto.RewardPoints,
		Version:      dto.Version,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
	}
}

func (po *CustomerPO) ToDomain() *customer.Customer {
	return customer.RebuildFromDTO(customer.ReconstructionDTO{
		ID:           po.ID,
		Name:         po.Name,
		Street:       po.Street,
		Number:       po.Number,
		Zip:          po.Zipcode,
		City:         po.City,
		Active:       po.Active,
		RewardPoints: po.RewardPoints,
		Version:      po.Version,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	})
}

// UpdateColumns Update 时写入的列
func (po *CustomerPO) UpdateColumns(version int) map[string]any {
	return map[string]any{
		"name":          po.Name,
		"street":        po.Street,
		"number":        po.Number,
		"zipcode":       po.Zipcode,
		"city":          po.City,
		"active":        po.Active,
		"reward_points": po.RewardPoints,
		"version":       version,
		"updated_at":    po.UpdatedAt,
	}
}
