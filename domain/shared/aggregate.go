package shared

// AggregateRoot 聚合根接口
// 聚合根是聚合的入口点，维护聚合的一致性边界
// 特性：
// 1. 有全局唯一标识
// 2. 每次状态变更都重新校验不变量，校验失败时状态保持不变
// 3. 记录领域事件，由工作单元在持久化后取出并分发
type AggregateRoot interface {
	// ID 返回聚合根的全局唯一标识
	ID() string

	// PullEvents 获取并清空聚合根记录的领域事件
	PullEvents() []DomainEvent
}

// Entity 实体接口
// 实体通过标识判断相等性（即使属性相同，ID不同就是不同的实体）
type Entity interface {
	ID() string
}

// EventRecorder 聚合根内嵌的事件记录器
// 零值可直接使用
type EventRecorder struct {
	events []DomainEvent
}

// Record 记录一个领域事件
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// PullEvents 返回已记录事件的副本并清空列表
func (r *EventRecorder) PullEvents() []DomainEvent {
	events := make([]DomainEvent, len(r.events))
	copy(events, r.events)
	r.events = nil
	return events
}

// PendingEvents 返回尚未取出的事件数量
func (r *EventRecorder) PendingEvents() int {
	return len(r.events)
}
