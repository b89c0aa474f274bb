package shared

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// EventDispatcher 进程内同步事件分发器
//
// 注册表是 事件名 -> 处理器有序列表，注册顺序即通知顺序。
// 分发器只持有处理器引用，不管理其生命周期。
type EventDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

// NewEventDispatcher 创建空的分发器
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		handlers: make(map[string][]EventHandler),
	}
}

// Register 把处理器追加到 eventName 的列表末尾
// 不去重：同一处理器注册两次会被调用两次
func (d *EventDispatcher) Register(eventName string, handler EventHandler) {
	if handler == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[eventName] = append(d.handlers[eventName], handler)
}

// Unregister 移除 eventName 列表中第一次出现的 handler
// 列表变空后仍然保留（区分"没有处理器"和"从未注册"）；找不到时静默返回
// 处理器按接口值比较；不可比较的处理器（如含切片字段的值类型）永远匹配不上，只能 UnregisterAll
func (d *EventDispatcher) Unregister(eventName string, handler EventHandler) {
	if handler == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	handlers, exists := d.handlers[eventName]
	if !exists {
		return
	}

	for i, h := range handlers {
		if sameHandler(h, handler) {
			remaining := make([]EventHandler, 0, len(handlers)-1)
			remaining = append(remaining, handlers[:i]...)
			remaining = append(remaining, handlers[i+1:]...)
			d.handlers[eventName] = remaining
			return
		}
	}
}

// sameHandler 只在两边动态类型相同且可比较时用 ==，避免 panic
func sameHandler(a, b EventHandler) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// UnregisterAll 清空注册表，恢复到初始状态
func (d *EventDispatcher) UnregisterAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers = make(map[string][]EventHandler)
}

// Handlers 返回 eventName 的处理器副本；第二个返回值表示该事件名是否注册过
func (d *EventDispatcher) Handlers(eventName string) ([]EventHandler, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	handlers, exists := d.handlers[eventName]
	if !exists {
		return nil, false
	}

	snapshot := make([]EventHandler, len(handlers))
	copy(snapshot, handlers)
	return snapshot, true
}

// Notify 按注册顺序同步调用 event 对应的所有处理器
//
// 调用前先对列表做快照并释放锁，处理器内部可以再次 Notify 或 Register。
// 某个处理器失败不会中断后续处理器；所有错误合并返回，且匹配 ErrHandlerFailed。
func (d *EventDispatcher) Notify(event DomainEvent) error {
	return d.NotifyContext(context.Background(), event)
}

// NotifyContext 同 Notify，ctx 传给实现了 ContextHandler 的处理器
func (d *EventDispatcher) NotifyContext(ctx context.Context, event DomainEvent) error {
	if event == nil {
		return nil
	}

	handlers, exists := d.Handlers(event.EventName())
	if !exists || len(handlers) == 0 {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handle(ctx, handler, event); err != nil {
			errs = append(errs, fmt.Errorf("handler %s: %w", handler.Name(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: event %s: %w", ErrHandlerFailed, event.EventName(), errors.Join(errs...))
	}
	return nil
}

func handle(ctx context.Context, handler EventHandler, event DomainEvent) error {
	if ch, ok := handler.(ContextHandler); ok {
		return ch.HandleContext(ctx, event)
	}
	return handler.Handle(event)
}

// NotifyAll 依次分发多个事件，合并所有错误
func (d *EventDispatcher) NotifyAll(events []DomainEvent) error {
	return d.NotifyAllContext(context.Background(), events)
}

func (d *EventDispatcher) NotifyAllContext(ctx context.Context, events []DomainEvent) error {
	var errs []error
	for _, event := range events {
		if err := d.NotifyContext(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
