package shared

import (
	"context"
	"fmt"
	"time"
)

// DomainEvent 领域事件
// 事件一旦创建即不可变；EventName 是分发器的路由键
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string

	// Payload 返回事件携带的数据，处理器按事件名约定其具体形状
	Payload() any
}

// EventHandler 事件处理器
type EventHandler interface {
	Handle(event DomainEvent) error
	Name() string
}

// ContextHandler 需要调用方 ctx 的处理器（如日志带上 request_id）
// 经 NotifyContext 分发时优先调用 HandleContext
type ContextHandler interface {
	EventHandler
	HandleContext(ctx context.Context, event DomainEvent) error
}

// BaseEvent 具体事件内嵌的公共部分
type BaseEvent struct {
	name        string
	aggregateID string
	occurredOn  time.Time
}

// NewBaseEvent 以当前时间创建事件头
func NewBaseEvent(name, aggregateID string) BaseEvent {
	return BaseEvent{
		name:        name,
		aggregateID: aggregateID,
		occurredOn:  time.Now(),
	}
}

func (e BaseEvent) EventName() string      { return e.name }
func (e BaseEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e BaseEvent) GetAggregateID() string { return e.aggregateID }

// GenericEvent 只有名称和任意载荷的事件
// 用于没有专门类型的事件，以及测试
type GenericEvent struct {
	BaseEvent
	payload any
}

// NewGenericEvent 创建通用事件
func NewGenericEvent(name, aggregateID string, payload any) *GenericEvent {
	return &GenericEvent{
		BaseEvent: NewBaseEvent(name, aggregateID),
		payload:   payload,
	}
}

func (e *GenericEvent) Payload() any { return e.payload }

// ValidateEvent 校验事件头是否完整（写入 outbox 前使用）
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}

	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}

	return nil
}

// FuncHandler 把函数适配为 EventHandler
type FuncHandler struct {
	name string
	fn   func(DomainEvent) error
}

// NewFuncHandler 创建函数处理器；name 为空时生成一个唯一名称
func NewFuncHandler(name string, fn func(DomainEvent) error) *FuncHandler {
	if name == "" {
		name = fmt.Sprintf("func-handler-%d", time.Now().UnixNano())
	}
	return &FuncHandler{
		name: name,
		fn:   fn,
	}
}

func (h *FuncHandler) Handle(event DomainEvent) error {
	return h.fn(event)
}

func (h *FuncHandler) Name() string {
	return h.name
}
