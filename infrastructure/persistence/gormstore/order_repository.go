package gormstore

import (
	"context"
	"errors"

	"ddd-shop/domain/order"
	"ddd-shop/domain/shared"
	"ddd-shop/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

// OrderRepository 订单仓储
// 不使用 GORM 关联，订单项手动读写
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create 在同一事务内写入订单及全部订单项
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(orderPO).Error; err != nil {
			if isDuplicateKeyError(err) {
				return shared.NewConflictError("order", "order already exists: "+o.ID())
			}
			return err
		}
		return tx.Create(&itemPOs).Error
	})
}

// Update 乐观锁更新 total，删除旧订单项后重新写入
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)
	expectedVersion := o.Version()

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Model(&po.OrderPO{}).
			Where("id = ? AND version = ?", o.ID(), expectedVersion).
			Updates(map[string]any{
				"customer_id": orderPO.CustomerID,
				"total":       orderPO.Total,
				"version":     expectedVersion + 1,
				"updated_at":  orderPO.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return order.NewOrderNotFoundError(o.ID())
			}
			return order.NewConcurrentModificationError(o.ID())
		}

		if err := tx.Where("order_id = ?", o.ID()).Delete(&po.OrderItemPO{}).Error; err != nil {
			return err
		}
		return tx.Create(&itemPOs).Error
	})
	if err != nil {
		return err
	}

	o.IncrementVersionForSave()
	return nil
}

func (r *OrderRepository) Find(ctx context.Context, id string) (*order.Order, error) {
	db := getDB(ctx, r.db)

	var orderPO po.OrderPO
	result := db.First(&orderPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, result.Error
	}

	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id = ?", id).Order("position ASC").Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	return orderPO.ToDomain(itemPOs), nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*order.Order, error) {
	var orderPOs []po.OrderPO
	if err := getDB(ctx, r.db).Order("created_at ASC, id ASC").Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, orderPOs)
}

func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*order.Order, error) {
	var orderPOs []po.OrderPO
	if err := getDB(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("created_at ASC, id ASC").
		Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, orderPOs)
}

// withItems 一次查询取回所有订单的订单项并组装
func (r *OrderRepository) withItems(ctx context.Context, orderPOs []po.OrderPO) ([]*order.Order, error) {
	if len(orderPOs) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]string, len(orderPOs))
	for i, orderPO := range orderPOs {
		ids[i] = orderPO.ID
	}

	var itemPOs []po.OrderItemPO
	if err := getDB(ctx, r.db).
		Where("order_id IN ?", ids).
		Order("order_id ASC, position ASC").
		Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	grouped := make(map[string][]po.OrderItemPO, len(orderPOs))
	for _, item := range itemPOs {
		grouped[item.OrderID] = append(grouped[item.OrderID], item)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(grouped[orderPOs[i].ID])
	}
	return orders, nil
}

var _ order.Repository = (*OrderRepository)(nil)
