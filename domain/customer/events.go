package customer

import "ddd-shop/domain/shared"

const (
	EventCreated        = "customer.created"
	EventAddressChanged = "customer.address_changed"
	EventActivated      = "customer.activated"
	EventDeactivated    = "customer.deactivated"
)

// CreatedPayload customer.created 载荷
type CreatedPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreatedEvent Customer created event
type CreatedEvent struct {
	shared.BaseEvent
	payload CreatedPayload
}

func NewCreatedEvent(id, name string) *CreatedEvent {
	return &CreatedEvent{
		BaseEvent: shared.NewBaseEvent(EventCreated, id),
		payload:   CreatedPayload{ID: id, Name: name},
	}
}

func (e *CreatedEvent) Payload() any         { return e.payload }
func (e *CreatedEvent) Data() CreatedPayload { return e.payload }

// AddressChangedPayload customer.address_changed 载荷
type AddressChangedPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// AddressChangedEvent Customer address changed event
type AddressChangedEvent struct {
	shared.BaseEvent
	payload AddressChangedPayload
	address Address
}

func NewAddressChangedEvent(id, name string, address Address) *AddressChangedEvent {
	return &AddressChangedEvent{
		BaseEvent: shared.NewBaseEvent(EventAddressChanged, id),
		payload:   AddressChangedPayload{ID: id, Name: name, Address: address.String()},
		address:   address,
	}
}

func (e *AddressChangedEvent) Payload() any                { return e.payload }
func (e *AddressChangedEvent) Data() AddressChangedPayload { return e.payload }
func (e *AddressChangedEvent) Address() Address            { return e.address }

// StatusPayload activated/deactivated 载荷
type StatusPayload struct {
	ID string `json:"id"`
}

// ActivatedEvent Customer activated event
type ActivatedEvent struct {
	shared.BaseEvent
}

func NewActivatedEvent(id string) *ActivatedEvent {
	return &ActivatedEvent{BaseEvent: shared.NewBaseEvent(EventActivated, id)}
}

func (e *ActivatedEvent) Payload() any { return StatusPayload{ID: e.GetAggregateID()} }

// DeactivatedEvent Customer deactivated event
type DeactivatedEvent struct {
	shared.BaseEvent
}

func NewDeactivatedEvent(id string) *DeactivatedEvent {
	return &DeactivatedEvent{BaseEvent: shared.NewBaseEvent(EventDeactivated, id)}
}

func (e *DeactivatedEvent) Payload() any { return StatusPayload{ID: e.GetAggregateID()} }
