/*
Package eventhandler 进程内的领域事件处理器。

处理器只写日志。既能处理聚合产生的强类型事件，
也能处理从 outbox 还原的通用事件（载荷为 map[string]any）。
*/
package eventhandler

import (
	"context"
	"fmt"

	"ddd-shop/domain/customer"
	"ddd-shop/domain/order"
	"ddd-shop/domain/product"
	"ddd-shop/domain/shared"
	"ddd-shop/pkg/logger"

	"go.uber.org/zap"
)

// logHandler 记录一条固定消息和事件载荷
type logHandler struct {
	name    string
	message string
	log     *zap.Logger
}

func newLogHandler(name, message string, log *zap.Logger) *logHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &logHandler{name: name, message: message, log: log.Named(name)}
}

func (h *logHandler) Name() string { return h.name }

func (h *logHandler) Handle(event shared.DomainEvent) error {
	return h.HandleContext(context.Background(), event)
}

// HandleContext 日志带上 ctx 中的 request_id
func (h *logHandler) HandleContext(ctx context.Context, event shared.DomainEvent) error {
	h.log.With(logger.ContextFields(ctx)...).Info(h.message,
		zap.String("event", event.EventName()),
		zap.String("aggregate_id", event.GetAggregateID()),
		zap.Any("payload", event.Payload()),
	)
	return nil
}

// LogWhenCustomerCreatedFirst customer.created 的第一个处理器
func LogWhenCustomerCreatedFirst(log *zap.Logger) shared.EventHandler {
	return newLogHandler("log-when-customer-created-1", "This is the first log of the event: CustomerCreated", log)
}

// LogWhenCustomerCreatedSecond customer.created 的第二个处理器
func LogWhenCustomerCreatedSecond(log *zap.Logger) shared.EventHandler {
	return newLogHandler("log-when-customer-created-2", "This is the second log of the event: CustomerCreated", log)
}

func LogWhenProductCreated(log *zap.Logger) shared.EventHandler {
	return newLogHandler("log-when-product-created", "Product created", log)
}

func LogWhenOrderPlaced(log *zap.Logger) shared.EventHandler {
	return newLogHandler("log-when-order-placed", "Order placed", log)
}

// customerAddressChangedHandler 输出 "Customer address {id}, {name} changed to: {address}"
type customerAddressChangedHandler struct {
	log *zap.Logger
}

func LogWhenCustomerAddressChanged(log *zap.Logger) shared.EventHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &customerAddressChangedHandler{log: log.Named("log-when-customer-address-changed")}
}

func (h *customerAddressChangedHandler) Name() string { return "log-when-customer-address-changed" }

func (h *customerAddressChangedHandler) Handle(event shared.DomainEvent) error {
	return h.HandleContext(context.Background(), event)
}

func (h *customerAddressChangedHandler) HandleContext(ctx context.Context, event shared.DomainEvent) error {
	data, err := addressChangedData(event)
	if err != nil {
		return err
	}

	h.log.With(logger.ContextFields(ctx)...).Info(fmt.Sprintf("Customer address %s, %s changed to: %s", data.ID, data.Name, data.Address),
		zap.String("event", event.EventName()),
		zap.String("customer_id", data.ID),
	)
	return nil
}

func addressChangedData(event shared.DomainEvent) (customer.AddressChangedPayload, error) {
	switch payload := event.Payload().(type) {
	case customer.AddressChangedPayload:
		return payload, nil
	case map[string]any:
		id, _ := payload["id"].(string)
		name, _ := payload["name"].(string)
		address, _ := payload["address"].(string)
		return customer.AddressChangedPayload{ID: id, Name: name, Address: address}, nil
	default:
		return customer.AddressChangedPayload{}, fmt.Errorf("unexpected payload %T for %s", payload, event.EventName())
	}
}

// RegisterDefaults 注册全部日志处理器
func RegisterDefaults(dispatcher *shared.EventDispatcher, log *zap.Logger) {
	dispatcher.Register(customer.EventCreated, LogWhenCustomerCreatedFirst(log))
	dispatcher.Register(customer.EventCreated, LogWhenCustomerCreatedSecond(log))
	dispatcher.Register(customer.EventAddressChanged, LogWhenCustomerAddressChanged(log))
	dispatcher.Register(product.EventCreated, LogWhenProductCreated(log))
	dispatcher.Register(order.EventPlaced, LogWhenOrderPlaced(log))
}
