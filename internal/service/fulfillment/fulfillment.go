// Package fulfillment переносит заказ из коллекции ожидающих в коллекцию выданных.
package fulfillment

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-tracker/internal/console"
	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
	"github.com/vladislavdragonenkov/order-tracker/internal/metrics"
)

const (
	// MessageNothingPending возвращается, когда выдавать нечего.
	MessageNothingPending = "no pending orders"
	// MessageCanceled возвращается, когда оператор оставил выбор пустым.
	MessageCanceled = "fulfillment canceled"

	promptSelection = "Select an order to fulfill (number, Enter to cancel): "
)

// Move возвращает новые коллекции: pending без заказа index (порядок остальных сохранён)
// и completed с этим заказом в конце. Входные срезы не изменяются.
func Move(pending, completed []domain.Order, index int) ([]domain.Order, []domain.Order, domain.Order, error) {
	if index < 0 || index >= len(pending) {
		return nil, nil, domain.Order{}, fmt.Errorf("%w: index %d of %d", domain.ErrOrderNotFound, index, len(pending))
	}
	moved := pending[index]

	nextPending := make([]domain.Order, 0, len(pending)-1)
	nextPending = append(nextPending, pending[:index]...)
	nextPending = append(nextPending, pending[index+1:]...)

	nextCompleted := make([]domain.Order, 0, len(completed)+1)
	nextCompleted = append(nextCompleted, completed...)
	nextCompleted = append(nextCompleted, moved)

	return nextPending, nextCompleted, moved, nil
}

// Result — итог выдачи. Order == nil, если ничего не перенесено.
type Result struct {
	Message   string
	Order     *domain.Order
	Pending   []domain.Order
	Completed []domain.Order
}

// Service выбирает заказ и сохраняет обе коллекции.
type Service struct {
	console   *console.Console
	store     domain.CollectionStore
	publisher domain.EventPublisher
	metrics   *metrics.OrderMetrics
	logger    *log.Entry
}

// NewService конструирует сервис с зависимостями. publisher, metrics и logger могут быть nil.
func NewService(
	c *console.Console,
	store domain.CollectionStore,
	publisher domain.EventPublisher,
	m *metrics.OrderMetrics,
	logger *log.Entry,
) *Service {
	if publisher == nil {
		publisher = domain.NoopPublisher{}
	}
	if logger == nil {
		logger = log.WithField("component", "fulfillment")
	}
	return &Service{
		console:   c,
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Fulfill показывает список pending и переносит выбранный заказ в completed.
func (s *Service) Fulfill(ctx context.Context, pending []domain.Order) (Result, error) {
	if len(pending) == 0 {
		return Result{Message: MessageNothingPending, Pending: pending}, nil
	}

	s.printPending(pending)

	index, ok, err := s.askSelection(ctx, len(pending))
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Message: MessageCanceled, Pending: pending}, nil
	}

	completed, err := s.store.Load(ctx, domain.CollectionCompleted)
	if err != nil {
		return Result{}, fmt.Errorf("load completed orders: %w", err)
	}

	nextPending, nextCompleted, moved, err := Move(pending, completed, index)
	if err != nil {
		return Result{}, err
	}

	started := time.Now()
	if err := s.persist(ctx, nextPending, nextCompleted); err != nil {
		return Result{}, err
	}
	s.metrics.RecordStoreDuration("move", string(domain.CollectionCompleted), time.Since(started))
	s.metrics.RecordOrderFulfilled()
	s.metrics.SetPendingOrders(len(nextPending))

	s.logger.WithFields(log.Fields{
		"order_id":  moved.ID,
		"pending":   len(nextPending),
		"completed": len(nextCompleted),
	}).Info("order fulfilled")

	if err := s.publisher.Publish(ctx, domain.EventOrderFulfilled, moved); err != nil {
		s.logger.WithError(err).WithField("order_id", moved.ID).Warn("failed to publish order event")
	}

	return Result{
		Message:   fmt.Sprintf("order %s fulfilled", moved.ID),
		Order:     &moved,
		Pending:   nextPending,
		Completed: nextCompleted,
	}, nil
}

func (s *Service) printPending(pending []domain.Order) {
	s.console.Println()
	s.console.Println("======== PENDING ORDERS ========")
	for idx, order := range pending {
		s.console.Printf("%d. Order ID: %s - Customer: %s\n", idx+1, order.ID, order.Customer)
	}
	s.console.Println("================================")
}

// askSelection возвращает индекс выбранного заказа; ok=false означает отмену пустым вводом.
func (s *Service) askSelection(ctx context.Context, size int) (int, bool, error) {
	for {
		raw, err := s.console.Ask(ctx, promptSelection)
		if err != nil {
			return 0, false, err
		}
		if raw == "" {
			return 0, false, nil
		}

		index, err := domain.ValidateSelection(raw, size)
		if err != nil {
			s.metrics.RecordInputRejected("selection")
			s.console.Error(err)
			continue
		}
		return index, true, nil
	}
}

// persist пишет обе коллекции. Хранилище с транзакциями делает это атомарно.
// Иначе сначала пишется completed: падение между записями оставит заказ в обеих коллекциях, но не потеряет его.
func (s *Service) persist(ctx context.Context, pending, completed []domain.Order) error {
	if atomic, ok := s.store.(domain.AtomicCollectionStore); ok {
		if err := atomic.SaveAll(ctx, map[domain.Collection][]domain.Order{
			domain.CollectionPending:   pending,
			domain.CollectionCompleted: completed,
		}); err != nil {
			return fmt.Errorf("save collections: %w", err)
		}
		return nil
	}

	if err := s.store.Save(ctx, domain.CollectionCompleted, completed); err != nil {
		return fmt.Errorf("save completed orders: %w", err)
	}
	if err := s.store.Save(ctx, domain.CollectionPending, pending); err != nil {
		return fmt.Errorf("save pending orders: %w", err)
	}
	return nil
}
