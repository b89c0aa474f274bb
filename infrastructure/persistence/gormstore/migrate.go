package gormstore

import (
	"fmt"

	"ddd-shop/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

// Models 全部持久化对象
func Models() []any {
	return []any{
		&po.CustomerPO{},
		&po.ProductPO{},
		&po.OrderPO{},
		&po.OrderItemPO{},
		&po.OutboxEventPO{},
	}
}

// AutoMigrate 创建或更新表结构
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
