package cmd

import (
	"context"
	"fmt"
	"time"

	customerapp "ddd-shop/application/customer"
	"ddd-shop/application/eventhandler"
	orderapp "ddd-shop/application/order"
	productapp "ddd-shop/application/product"
	"ddd-shop/config"
	customerdomain "ddd-shop/domain/customer"
	orderdomain "ddd-shop/domain/order"
	productdomain "ddd-shop/domain/product"
	"ddd-shop/domain/shared"
	"ddd-shop/infrastructure/persistence/gormstore"
	"ddd-shop/infrastructure/persistence/memory"
	"ddd-shop/infrastructure/persistence/query"
	"ddd-shop/infrastructure/persistence/retry"
	"ddd-shop/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg             *config.Config
	logger          *zap.Logger
	dispatcher      *shared.EventDispatcher
	registrations   []func(*shared.EventDispatcher)
	defaultHandlers bool
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:             cfg,
		defaultHandlers: true,
	}
}

// WithLogger 指定日志；默认使用全局 logger
func (b *AppBuilder) WithLogger(l *zap.Logger) *AppBuilder {
	b.logger = l
	return b
}

// WithDispatcher 使用外部创建的分发器
func (b *AppBuilder) WithDispatcher(d *shared.EventDispatcher) *AppBuilder {
	b.dispatcher = d
	return b
}

// WithHandlers adds a handler registration, applied after the default handlers
func (b *AppBuilder) WithHandlers(register func(*shared.EventDispatcher)) *AppBuilder {
	b.registrations = append(b.registrations, register)
	return b
}

// WithoutDefaultHandlers disables the logging handlers
func (b *AppBuilder) WithoutDefaultHandlers() *AppBuilder {
	b.defaultHandlers = false
	return b
}

// repositories 一种持久化实现的全部组件
type repositories struct {
	customers  customerdomain.Repository
	orders     orderdomain.Repository
	products   productdomain.Repository
	uowFactory shared.UnitOfWorkFactory
}

// Build creates the App instance
func (b *AppBuilder) Build() (*App, error) {
	log := b.logger
	if log == nil {
		log = logger.Named("app")
	}

	dispatcher := b.dispatcher
	if dispatcher == nil {
		dispatcher = shared.NewEventDispatcher()
	}
	if b.defaultHandlers {
		eventhandler.RegisterDefaults(dispatcher, log.Named("events"))
	}
	for _, register := range b.registrations {
		register(dispatcher)
	}

	log.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("database", b.cfg.Database.Type))

	app := &App{
		config:     b.cfg,
		logger:     log,
		dispatcher: dispatcher,
	}

	var repos repositories
	if b.cfg.Database.Type == config.DatabaseMemory {
		log.Info("Using in-memory persistence layer")
		store := memory.NewStore()
		repos = repositories{
			customers:  memory.NewCustomerRepository(store),
			orders:     memory.NewOrderRepository(store),
			products:   memory.NewProductRepository(store),
			uowFactory: memory.NewUnitOfWorkFactory(store, dispatcher),
		}
	} else {
		db, err := b.initDatabase(log)
		if err != nil {
			return nil, err
		}
		app.db = db

		repos = repositories{
			customers:  gormstore.NewCustomerRepository(db),
			orders:     gormstore.NewOrderRepository(db),
			products:   gormstore.NewProductRepository(db),
			uowFactory: gormstore.NewUnitOfWorkFactory(db, dispatcher, retry.FromAppConfig(b.cfg.Database.Retry)),
		}

		sqlDB, err := db.DB()
		if err != nil {
			_ = gormstore.Close(db)
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		app.query, err = query.NewOrderQueryService(sqlDB, b.cfg.Database.Type)
		if err != nil {
			_ = gormstore.Close(db)
			return nil, err
		}
	}

	app.Customers = customerapp.NewApplicationService(repos.customers, repos.uowFactory)
	app.Products = productapp.NewApplicationService(repos.products, repos.uowFactory)
	app.Orders = orderapp.NewApplicationService(repos.orders, repos.customers, repos.products, repos.uowFactory)

	return app, nil
}

func (b *AppBuilder) initDatabase(log *zap.Logger) (*gorm.DB, error) {
	dbConfig := gormstore.FromAppConfig(b.cfg.Database)
	dbConfig.Logger = log.Named("gorm")
	db, err := dbConfig.Connect()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := gormstore.Ping(ctx, db); err != nil {
		_ = gormstore.Close(db)
		return nil, fmt.Errorf("failed to ping %s: %w", b.cfg.Database.Type, err)
	}

	if b.cfg.Database.AutoMigrate {
		if err := gormstore.AutoMigrate(db); err != nil {
			_ = gormstore.Close(db)
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
		log.Info("Database schema migrated")
	}

	return db, nil
}
