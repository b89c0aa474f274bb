package cmd

import (
	"context"
	"errors"
	"fmt"

	customerapp "ddd-shop/application/customer"
	orderapp "ddd-shop/application/order"
	productapp "ddd-shop/application/product"
	"ddd-shop/config"
	"ddd-shop/domain/order"
	"ddd-shop/domain/shared"
	"ddd-shop/infrastructure/persistence/gormstore"
	"ddd-shop/infrastructure/persistence/query"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrDatabaseRequired 操作需要 SQL 数据库，内存模式不支持
var ErrDatabaseRequired = errors.New("operation requires database.type mysql, postgres or sqlite")

// App 组装好的应用
type App struct {
	Customers *customerapp.ApplicationService
	Orders    *orderapp.ApplicationService
	Products  *productapp.ApplicationService

	config     *config.Config
	logger     *zap.Logger
	dispatcher *shared.EventDispatcher
	db         *gorm.DB
	query      *query.OrderQueryService
}

func (a *App) Dispatcher() *shared.EventDispatcher { return a.dispatcher }

// DB 内存模式下为 nil
func (a *App) DB() *gorm.DB { return a.db }

// Migrate 建表
func (a *App) Migrate() error {
	if a.db == nil {
		return ErrDatabaseRequired
	}
	if err := gormstore.AutoMigrate(a.db); err != nil {
		return err
	}
	a.logger.Info("Database schema migrated", zap.String("database", a.config.Database.Type))
	return nil
}

// NewOutboxWorker 基于当前数据库创建 outbox worker
func (a *App) NewOutboxWorker(publisher gormstore.OutboxPublisher) (*gormstore.OutboxWorker, error) {
	if a.db == nil {
		return nil, ErrDatabaseRequired
	}
	return gormstore.NewOutboxWorker(
		gormstore.NewOutboxRepository(a.db),
		publisher,
		gormstore.WorkerConfigFromApp(a.config.Outbox),
		a.logger.Named("outbox"),
	)
}

// CustomerSummary 客户的订单统计
type CustomerSummary struct {
	CustomerID string          `json:"customer_id"`
	OrderCount int             `json:"order_count"`
	TotalSpent float64         `json:"total_spent"`
	Recent     []order.Summary `json:"recent"`
}

// Summary 有 SQL 数据库时走读侧查询，否则由仓储数据计算
func (a *App) Summary(ctx context.Context, customerID string, recent int) (*CustomerSummary, error) {
	if _, err := a.Customers.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	if a.query != nil {
		overview, err := a.query.Overview(ctx, customerID, recent)
		if err != nil {
			return nil, err
		}
		return &CustomerSummary{
			CustomerID: customerID,
			OrderCount: overview.Stats.OrderCount,
			TotalSpent: overview.Stats.TotalSpent,
			Recent:     overview.Recent,
		}, nil
	}

	orders, total, err := a.Orders.CustomerOrders(ctx, customerID)
	if err != nil {
		return nil, err
	}

	summary := &CustomerSummary{
		CustomerID: customerID,
		OrderCount: len(orders),
		TotalSpent: total,
		Recent:     []order.Summary{},
	}
	// 与读侧查询保持一致：最新的在前
	for i := len(orders) - 1; i >= 0 && len(summary.Recent) < recent; i-- {
		o := orders[i]
		quantity := 0
		for _, item := range o.Items {
			quantity += item.Quantity
		}
		summary.Recent = append(summary.Recent, order.Summary{
			OrderID:    o.ID,
			CustomerID: o.CustomerID,
			Total:      o.Total,
			ItemCount:  len(o.Items),
			Quantity:   quantity,
		})
	}
	return summary, nil
}

// Close 释放数据库连接
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	if err := gormstore.Close(a.db); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
