/*
Package query 读侧查询服务。

直接对 gormstore 建的表做聚合查询，返回扁平读模型，不经过聚合重建。
SQL 由 goqu 按方言生成，sqlx 负责扫描到结构体。
*/
package query

import (
	"context"
	"database/sql"
	"fmt"

	"ddd-shop/config"
	"ddd-shop/domain/order"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

const (
	tableOrders     = "orders"
	tableOrderItems = "order_items"

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// OrderQueryService order.QueryService 的 SQL 实现
type OrderQueryService struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

// NewOrderQueryService databaseType 取 config.DatabaseMySQL / DatabasePostgres / DatabaseSQLite
func NewOrderQueryService(db *sql.DB, databaseType string) (*OrderQueryService, error) {
	var dialect, driverName string
	switch databaseType {
	case config.DatabaseMySQL:
		dialect, driverName = "mysql", "mysql"
	case config.DatabasePostgres:
		dialect, driverName = "postgres", "pgx"
	case config.DatabaseSQLite:
		dialect, driverName = "sqlite3", "sqlite3"
	default:
		return nil, fmt.Errorf("query service does not support database type %q", databaseType)
	}

	return &OrderQueryService{
		db:      sqlx.NewDb(db, driverName),
		dialect: goqu.Dialect(dialect),
	}, nil
}

// OrderSummaries 订单摘要：每个订单的总额、订单项数量和商品件数
func (s *OrderQueryService) OrderSummaries(ctx context.Context, criteria order.SearchCriteria) ([]order.Summary, error) {
	page, size := normalizePage(criteria.Page, criteria.PageSize)

	ds := s.dialect.
		From(goqu.T(tableOrders).As("o")).
		LeftJoin(goqu.T(tableOrderItems).As("i"), goqu.On(goqu.I("i.order_id").Eq(goqu.I("o.id")))).
		Select(
			goqu.I("o.id").As("order_id"),
			goqu.I("o.customer_id").As("customer_id"),
			goqu.I("o.total").As("total"),
			goqu.COUNT(goqu.I("i.id")).As("item_count"),
			goqu.COALESCE(goqu.SUM(goqu.I("i.quantity")), 0).As("quantity"),
		).
		GroupBy(goqu.I("o.id"), goqu.I("o.customer_id"), goqu.I("o.total"), goqu.I("o.created_at")).
		Order(goqu.I("o.created_at").Desc(), goqu.I("o.id").Desc()).
		Limit(uint(size)).
		Offset(uint((page - 1) * size))

	if criteria.CustomerID != "" {
		ds = ds.Where(goqu.I("o.customer_id").Eq(criteria.CustomerID))
	}
	if criteria.MinTotal > 0 {
		ds = ds.Where(goqu.I("o.total").Gte(criteria.MinTotal))
	}

	sqlQuery, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build order summary query: %w", err)
	}

	summaries := make([]order.Summary, 0)
	if err := s.db.SelectContext(ctx, &summaries, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to query order summaries: %w", err)
	}
	return summaries, nil
}

// CustomerStats 客户的订单数和消费总额；没有订单时为零值
func (s *OrderQueryService) CustomerStats(ctx context.Context, customerID string) (order.CustomerStats, error) {
	ds := s.dialect.
		From(tableOrders).
		Select(
			goqu.COUNT(goqu.Star()).As("order_count"),
			goqu.COALESCE(goqu.SUM(goqu.C("total")), 0).As("total_spent"),
		).
		Where(goqu.C("customer_id").Eq(customerID))

	sqlQuery, args, err := ds.ToSQL()
	if err != nil {
		return order.CustomerStats{}, fmt.Errorf("failed to build customer stats query: %w", err)
	}

	var row struct {
		OrderCount int     `db:"order_count"`
		TotalSpent float64 `db:"total_spent"`
	}
	if err := s.db.GetContext(ctx, &row, sqlQuery, args...); err != nil {
		return order.CustomerStats{}, fmt.Errorf("failed to query customer stats: %w", err)
	}

	return order.CustomerStats{
		CustomerID: customerID,
		OrderCount: row.OrderCount,
		TotalSpent: row.TotalSpent,
	}, nil
}

// CustomerOverview 客户统计与最近订单
type CustomerOverview struct {
	Stats  order.CustomerStats
	Recent []order.Summary
}

// Overview 并发查询统计和最近 recent 条订单摘要
func (s *OrderQueryService) Overview(ctx context.Context, customerID string, recent int) (CustomerOverview, error) {
	var overview CustomerOverview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.CustomerStats(ctx, customerID)
		if err != nil {
			return err
		}
		overview.Stats = stats
		return nil
	})
	g.Go(func() error {
		summaries, err := s.OrderSummaries(ctx, order.SearchCriteria{CustomerID: customerID, Page: 1, PageSize: recent})
		if err != nil {
			return err
		}
		overview.Recent = summaries
		return nil
	})

	if err := g.Wait(); err != nil {
		return CustomerOverview{}, err
	}
	return overview, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

var _ order.QueryService = (*OrderQueryService)(nil)
