package gormstore

import (
	"context"
	"errors"

	"ddd-shop/domain/customer"
	"ddd-shop/domain/shared"
	"ddd-shop/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	customerPO := po.FromCustomerDomain(c)
	if err := getDB(ctx, r.db).Create(customerPO).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.NewConflictError("customer", "customer already exists: "+c.ID())
		}
		return err
	}
	return nil
}

// Update 严格乐观锁：以聚合当前版本为条件更新
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	customerPO := po.FromCustomerDomain(c)
	expectedVersion := c.Version()

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Model(&po.CustomerPO{}).
			Where("id = ? AND version = ?", c.ID(), expectedVersion).
			Updates(customerPO.UpdateColumns(expectedVersion + 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.CustomerPO{}).Where("id = ?", c.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return customer.NewCustomerNotFoundError(c.ID())
			}
			return customer.NewConcurrentModificationError(c.ID())
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.IncrementVersionForSave()
	return nil
}

func (r *CustomerRepository) Find(ctx context.Context, id string) (*customer.Customer, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var customerPO po.CustomerPO
	result := getDB(ctx, r.db).First(&customerPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, customer.NewCustomerNotFoundError(id)
		}
		return nil, result.Error
	}

	return customerPO.ToDomain(), nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	var customerPOs []po.CustomerPO
	if err := getDB(ctx, r.db).Order("created_at ASC, id ASC").Find(&customerPOs).Error; err != nil {
		return nil, err
	}

	customers := make([]*customer.Customer, len(customerPOs))
	for i := range customerPOs {
		customers[i] = customerPOs[i].ToDomain()
	}
	return customers, nil
}

var _ customer.Repository = (*CustomerRepository)(nil)
