// Package orders создаёт заказы и добавляет их в коллекцию ожидающих.
package orders

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
	"github.com/vladislavdragonenkov/order-tracker/internal/metrics"
)

// AddOrder возвращает новую коллекцию с order в конце; existing не изменяется.
func AddOrder(existing []domain.Order, order domain.Order) ([]domain.Order, error) {
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if domain.HasOrderID(existing, order.ID) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateOrderID, order.ID)
	}

	next := make([]domain.Order, 0, len(existing)+1)
	next = append(next, existing...)
	return append(next, order), nil
}

// Result — итог добавления заказа.
type Result struct {
	Message string
	Order   domain.Order
	Pending []domain.Order
}

// Service собирает заказ и сохраняет обновлённую коллекцию ожидающих.
type Service struct {
	builder   *Builder
	store     domain.CollectionStore
	publisher domain.EventPublisher
	metrics   *metrics.OrderMetrics
	logger    *log.Entry
}

// NewService конструирует сервис с зависимостями. publisher, metrics и logger могут быть nil.
func NewService(
	builder *Builder,
	store domain.CollectionStore,
	publisher domain.EventPublisher,
	m *metrics.OrderMetrics,
	logger *log.Entry,
) *Service {
	if publisher == nil {
		publisher = domain.NoopPublisher{}
	}
	if logger == nil {
		logger = log.WithField("component", "orders")
	}
	return &Service{
		builder:   builder,
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Add собирает заказ поверх свежезагруженной коллекции pending и сохраняет её.
// Отклонённый заказ (дубликат, нет позиций) не меняет хранилище.
func (s *Service) Add(ctx context.Context, pending []domain.Order) (Result, error) {
	order, err := s.builder.Build(ctx, pending)
	if err != nil {
		s.recordRejected(err)
		return Result{}, err
	}

	next, err := AddOrder(pending, order)
	if err != nil {
		s.recordRejected(err)
		return Result{}, err
	}

	if err := s.store.Save(ctx, domain.CollectionPending, next); err != nil {
		return Result{}, fmt.Errorf("save pending orders: %w", err)
	}

	s.metrics.RecordOrderCreated()
	s.metrics.SetPendingOrders(len(next))
	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"items":    len(order.Items),
		"total":    order.Total(),
	}).Info("order added")

	if err := s.publisher.Publish(ctx, domain.EventOrderCreated, order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event")
	}

	return Result{
		Message: fmt.Sprintf("order %s added", order.ID),
		Order:   order,
		Pending: next,
	}, nil
}

func (s *Service) recordRejected(err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateOrderID):
		s.metrics.RecordOrderRejected(metrics.RejectDuplicateID)
	case errors.Is(err, domain.ErrItemsRequired):
		s.metrics.RecordOrderRejected(metrics.RejectNoItems)
	}
}
