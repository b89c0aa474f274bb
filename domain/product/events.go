package product

import "ddd-shop/domain/shared"

const (
	EventCreated      = "product.created"
	EventPriceChanged = "product.price_changed"
)

// CreatedPayload product.created 载荷
type CreatedPayload struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CreatedEvent struct {
	shared.BaseEvent
	payload CreatedPayload
}

func NewCreatedEvent(id, name string, price float64) *CreatedEvent {
	return &CreatedEvent{
		BaseEvent: shared.NewBaseEvent(EventCreated, id),
		payload:   CreatedPayload{ID: id, Name: name, Price: price},
	}
}

func (e *CreatedEvent) Payload() any         { return e.payload }
func (e *CreatedEvent) Data() CreatedPayload { return e.payload }

// PriceChangedPayload product.price_changed 载荷
type PriceChangedPayload struct {
	ID       string  `json:"id"`
	OldPrice float64 `json:"old_price"`
	NewPrice float64 `json:"new_price"`
}

type PriceChangedEvent struct {
	shared.BaseEvent
	payload PriceChangedPayload
}

func NewPriceChangedEvent(id string, oldPrice, newPrice float64) *PriceChangedEvent {
	return &PriceChangedEvent{
		BaseEvent: shared.NewBaseEvent(EventPriceChanged, id),
		payload:   PriceChangedPayload{ID: id, OldPrice: oldPrice, NewPrice: newPrice},
	}
}

func (e *PriceChangedEvent) Payload() any              { return e.payload }
func (e *PriceChangedEvent) Data() PriceChangedPayload { return e.payload }
