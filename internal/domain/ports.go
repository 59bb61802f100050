package domain

import "context"

// EventType — тип события жизненного цикла заказа.
type EventType string

const (
	EventOrderCreated   EventType = "order.created"
	EventOrderFulfilled EventType = "order.fulfilled"
)

// EventPublisher публикует события жизненного цикла наружу.
type EventPublisher interface {
	Publish(ctx context.Context, event EventType, order Order) error
}

// NoopPublisher ничего не публикует; используется, когда брокер не настроен.
type NoopPublisher struct{}

// Publish реализует EventPublisher.
func (NoopPublisher) Publish(context.Context, EventType, Order) error { return nil }

var _ EventPublisher = NoopPublisher{}
