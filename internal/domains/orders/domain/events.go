package domain

import "time"

// Event is the base interface for all order events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderPlaced is raised when a ticket is stored.
type OrderPlaced struct {
	BaseEvent
	OrderID      int64    `json:"order_id"`
	TableNumber  int      `json:"table_number"`
	CustomerName string   `json:"customer_name"`
	Items        []string `json:"items"`
	Instructions string   `json:"instructions,omitempty"`
	Total        string   `json:"total"`
}

// EventName returns the event type identifier.
func (e OrderPlaced) EventName() string {
	return "orders.order.placed"
}

// OrderStatusChanged is raised when the operator moves a ticket.
type OrderStatusChanged struct {
	BaseEvent
	OrderID    int64  `json:"order_id"`
	FromStatus Status `json:"from_status"`
	ToStatus   Status `json:"to_status"`
}

// EventName returns the event type identifier.
func (e OrderStatusChanged) EventName() string {
	return "orders.order.status_changed"
}
