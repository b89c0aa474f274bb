package po

import (
	"time"

	"ddd-shop/domain/shared"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// OutboxEventPO Outbox 事件持久化对象
// 与状态变更在同一事务写入，由 OutboxWorker 异步转发
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"` // e.g. "customer.created", "order.placed"
	Payload     string    `gorm:"type:text;not null"`      // JSON
	Status      string    `gorm:"size:20;index;default:PENDING;not null"`
	RetryCount  int       `gorm:"default:0;not null"`
	OccurredOn  time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus Outbox event status enum
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// EventEnvelope outbox payload 的 JSON 结构
type EventEnvelope struct {
	EventName   string    `json:"event_name"`
	AggregateID string    `json:"aggregate_id"`
	OccurredOn  time.Time `json:"occurred_on"`
	Data        any       `json:"data,omitempty"`
}

// FromDomainEvent 把领域事件转换为 outbox 记录
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := json.MarshalToString(EventEnvelope{
		EventName:   event.EventName(),
		AggregateID: event.GetAggregateID(),
		OccurredOn:  event.OccurredOn(),
		Data:        event.Payload(),
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &OutboxEventPO{
		ID:          uuid.New().String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      string(EventStatusPending),
		OccurredOn:  event.OccurredOn(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ToEnvelope 解析 payload；Data 解码为 map[string]any
func (po *OutboxEventPO) ToEnvelope() (EventEnvelope, error) {
	var env EventEnvelope
	if err := json.UnmarshalFromString(po.Payload, &env); err != nil {
		return EventEnvelope{}, err
	}
	return env, nil
}

// ToDomainEvent 还原为通用领域事件，供转发时交给分发器
func (po *OutboxEventPO) ToDomainEvent() (shared.DomainEvent, error) {
	env, err := po.ToEnvelope()
	if err != nil {
		return nil, err
	}
	return shared.NewGenericEvent(env.EventName, env.AggregateID, env.Data), nil
}
