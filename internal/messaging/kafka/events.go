package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Customer события
	EventTypeCustomerCreated EventType = "crm.customer.created"

	// Order события
	EventTypeOrderCreated EventType = "crm.order.created"
)

// Topics для Kafka
const (
	TopicCustomerEvents = "crm.customer.events"
	TopicOrderEvents    = "crm.order.events"
)

// CustomerEvent представляет событие по клиенту
type CustomerEvent struct {
	EventType  EventType `json:"event_type"`
	CustomerID string    `json:"customer_id"`
	Email      string    `json:"email"`
	Timestamp  time.Time `json:"timestamp"`
}

// OrderEvent представляет событие по заказу
type OrderEvent struct {
	EventType   EventType `json:"event_type"`
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	TotalAmount string    `json:"total_amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewCustomerEvent создает новое событие по клиенту
func NewCustomerEvent(eventType EventType, customerID, email string) *CustomerEvent {
	return &CustomerEvent{
		EventType:  eventType,
		CustomerID: customerID,
		Email:      email,
		Timestamp:  time.Now(),
	}
}

// NewOrderEvent создает новое событие по заказу
func NewOrderEvent(eventType EventType, orderID, customerID, totalAmount string) *OrderEvent {
	return &OrderEvent{
		EventType:   eventType,
		OrderID:     orderID,
		CustomerID:  customerID,
		TotalAmount: totalAmount,
		Timestamp:   time.Now(),
	}
}
