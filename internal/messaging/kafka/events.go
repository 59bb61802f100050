package kafka

import (
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
)

// DefaultTopic — топик событий заказов по умолчанию.
const DefaultTopic = "order-tracker.order.events"

// OrderEvent представляет событие жизненного цикла заказа.
type OrderEvent struct {
	EventID   string           `json:"event_id"`
	EventType domain.EventType `json:"event_type"`
	OrderID   string           `json:"order_id"`
	Customer  string           `json:"customer"`
	Total     int64            `json:"total"`
	Items     []domain.Item    `json:"items"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType domain.EventType, order domain.Order) *OrderEvent {
	return &OrderEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		OrderID:   order.ID,
		Customer:  order.Customer,
		Total:     order.Total(),
		Items:     order.Items,
		Timestamp: time.Now().UTC(),
	}
}
