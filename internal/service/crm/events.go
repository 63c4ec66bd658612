package crm

import (
	"encoding/json"
	"time"

	"github.com/dkomarov/crm/internal/domain"
)

// Типы доменных событий CRM, попадающих в transactional outbox.
const (
	EventCustomerCreated = "crm.customer.created"
	EventOrderCreated    = "crm.order.created"
)

// customerCreatedEvent — сериализуемое тело события о новом клиенте.
type customerCreatedEvent struct {
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

// orderCreatedEvent — сериализуемое тело события о новом заказе.
type orderCreatedEvent struct {
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	ProductIDs  []string  `json:"product_ids"`
	TotalAmount string    `json:"total_amount"`
	OrderDate   time.Time `json:"order_date"`
}

func customerEventPayload(customer domain.Customer) []byte {
	payload, err := json.Marshal(customerCreatedEvent{
		CustomerID: customer.ID,
		Name:       customer.Name,
		Email:      customer.Email,
		CreatedAt:  customer.CreatedAt,
	})
	if err != nil {
		return []byte("{}")
	}
	return payload
}

func orderEventPayload(order domain.Order) []byte {
	payload, err := json.Marshal(orderCreatedEvent{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		ProductIDs:  order.ProductIDs,
		TotalAmount: domain.FormatAmount(order.TotalMinor),
		OrderDate:   order.OrderDate,
	})
	if err != nil {
		return []byte("{}")
	}
	return payload
}
