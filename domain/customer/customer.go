package customer

import (
	"time"

	"ddd-shop/domain/shared"
)

// Customer 客户聚合根
//
// 不变量：
// 1. id、name 非空
// 2. 激活状态必须有地址
// 3. 奖励积分不为负
//
// 所有修改方法先校验候选状态，校验通过后才提交；失败时聚合保持原样
type Customer struct {
	id           string
	name         string
	address      Address
	active       bool
	rewardPoints int
	version      int // 乐观锁版本号
	createdAt    time.Time
	updatedAt    time.Time

	shared.EventRecorder
}

// NewCustomer 创建新客户（未激活，无地址，积分为 0）
func NewCustomer(id, name string) (*Customer, error) {
	if err := validateIdentity(id, name); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Customer{
		id:        id,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
	c.Record(NewCreatedEvent(id, name))

	return c, nil
}

func validateIdentity(id, name string) error {
	if id == "" {
		return newValidationError("id", ErrInvalidID)
	}
	if name == "" {
		return newValidationError("name", ErrInvalidName)
	}
	return nil
}

// ============================================================================
// 领域行为方法
// ============================================================================

// ChangeName 修改名称
func (c *Customer) ChangeName(name string) error {
	if err := validateIdentity(c.id, name); err != nil {
		return err
	}
	c.name = name
	c.touch()
	return nil
}

// ChangeAddress 替换地址，并记录 customer.address_changed
func (c *Customer) ChangeAddress(address Address) error {
	if address.IsZero() {
		return newValidationError("address", ErrInvalidAddress)
	}
	c.address = address
	c.touch()
	c.Record(NewAddressChangedEvent(c.id, c.name, address))
	return nil
}

// Activate 激活客户，没有地址时返回 ErrAddressRequired
func (c *Customer) Activate() error {
	if c.address.IsZero() {
		return newValidationError("address", ErrAddressRequired)
	}
	if c.active {
		return nil
	}
	c.active = true
	c.touch()
	c.Record(NewActivatedEvent(c.id))
	return nil
}

// Deactivate 停用客户
func (c *Customer) Deactivate() {
	if !c.active {
		return
	}
	c.active = false
	c.touch()
	c.Record(NewDeactivatedEvent(c.id))
}

// AddRewardPoints 增加奖励积分
func (c *Customer) AddRewardPoints(points int) error {
	if points < 0 {
		return newValidationError("rewardPoints", ErrNegativeRewardPoints)
	}
	if points == 0 {
		return nil
	}
	c.rewardPoints += points
	c.touch()
	return nil
}

func (c *Customer) touch() {
	c.updatedAt = time.Now()
}

// ============================================================================
// Getters
// ============================================================================

func (c *Customer) ID() string           { return c.id }
func (c *Customer) Name() string         { return c.name }
func (c *Customer) Address() Address     { return c.address }
func (c *Customer) HasAddress() bool     { return !c.address.IsZero() }
func (c *Customer) IsActive() bool       { return c.active }
func (c *Customer) RewardPoints() int    { return c.rewardPoints }
func (c *Customer) Version() int         { return c.version }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time { return c.updatedAt }

// IncrementVersionForSave 仓储在乐观锁更新成功后调用
func (c *Customer) IncrementVersionForSave() {
	c.version++
}

// ReconstructionDTO 客户重建数据
// ⚠️ 仅供仓储实现使用
type ReconstructionDTO struct {
	ID           string
	Name         string
	Street       string
	Number       int
	Zip          string
	City         string
	Active       bool
	RewardPoints int
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RebuildFromDTO 从持久化数据重建客户，不记录事件
func RebuildFromDTO(dto ReconstructionDTO) *Customer {
	return &Customer{
		id:   dto.ID,
		name: dto.Name,
		address: Address{
			street: dto.Street,
			number: dto.Number,
			zip:    dto.Zip,
			city:   dto.City,
		},
		active:       dto.Active,
		rewardPoints: dto.RewardPoints,
		version:      dto.Version,
		createdAt:    dto.CreatedAt,
		updatedAt:    dto.UpdatedAt,
	}
}

// ToDTO 导出持久化所需的全部状态
func (c *Customer) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:           c.id,
		Name:         c.name,
		Street:       c.address.street,
		Number:       c.address.number,
		Zip:          c.address.zip,
		City:         c.address.city,
		Active:       c.active,
		RewardPoints: c.rewardPoints,
		Version:      c.version,
		CreatedAt:    c.createdAt,
		UpdatedAt:    c.updatedAt,
	}
}

var _ shared.AggregateRoot = (*Customer)(nil)
