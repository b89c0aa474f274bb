package order

import "ddd-shop/domain/shared"

const EventPlaced = "order.placed"

// PlacedPayload order.placed 载荷
type PlacedPayload struct {
	OrderID    string  `json:"order_id"`
	CustomerID string  `json:"customer_id"`
	Total      float64 `json:"total"`
	ItemCount  int     `json:"item_count"`
}

type OrderPlacedEvent struct {
	shared.BaseEvent
	payload PlacedPayload
}

func NewOrderPlacedEvent(orderID, customerID string, total float64, itemCount int) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseEvent: shared.NewBaseEvent(EventPlaced, orderID),
		payload: PlacedPayload{
			OrderID:    orderID,
			CustomerID: customerID,
			Total:      total,
			ItemCount:  itemCount,
		},
	}
}

func (e *OrderPlacedEvent) Payload() any       { return e.payload }
func (e *OrderPlacedEvent) OrderID() string    { return e.payload.OrderID }
func (e *OrderPlacedEvent) CustomerID() string { return e.payload.CustomerID }
func (e *OrderPlacedEvent) Total() float64     { return e.payload.Total }
