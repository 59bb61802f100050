package orders

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/order-tracker/internal/console"
	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
	"github.com/vladislavdragonenkov/order-tracker/internal/metrics"
)

const (
	promptOrderID  = "Order ID: "
	promptCustomer = "Customer name: "
	promptItemName = "Item name (blank to finish): "
	promptPrice    = "Price: "
	promptQuantity = "Quantity: "
)

// Builder интерактивно собирает один заказ.
type Builder struct {
	console *console.Console
	metrics *metrics.OrderMetrics
}

// NewBuilder создаёт Builder поверх консоли. metrics может быть nil.
func NewBuilder(c *console.Console, m *metrics.OrderMetrics) *Builder {
	return &Builder{console: c, metrics: m}
}

// Build запрашивает идентификатор, клиента и позиции.
// Дубликат идентификатора в existing прерывает сборку сразу после ввода id.
func (b *Builder) Build(ctx context.Context, existing []domain.Order) (domain.Order, error) {
	rawID, err := b.console.Ask(ctx, promptOrderID)
	if err != nil {
		return domain.Order{}, err
	}
	id := domain.NormalizeOrderID(rawID)
	if domain.HasOrderID(existing, id) {
		return domain.Order{}, fmt.Errorf("%w: %s", domain.ErrDuplicateOrderID, id)
	}

	customer, err := b.console.Ask(ctx, promptCustomer)
	if err != nil {
		return domain.Order{}, err
	}

	items, err := b.askItems(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, domain.ErrItemsRequired
	}

	return domain.Order{
		ID:       id,
		Customer: customer,
		Items:    items,
	}, nil
}

func (b *Builder) askItems(ctx context.Context) ([]domain.Item, error) {
	items := make([]domain.Item, 0)
	var total int64
	for {
		name, err := b.console.Ask(ctx, promptItemName)
		if err != nil {
			return nil, err
		}
		if name == "" {
			return items, nil
		}

		validatePrice := func(raw string) (int64, error) {
			return domain.ValidateItemPrice(raw, total)
		}
		price, err := console.AskUntil(ctx, b.console, promptPrice, tracked(b.metrics, "price", validatePrice))
		if err != nil {
			return nil, err
		}
		validateQuantity := func(raw string) (int64, error) {
			return domain.ValidateItemQuantity(raw, price, total)
		}
		quantity, err := console.AskUntil(ctx, b.console, promptQuantity, tracked(b.metrics, "quantity", validateQuantity))
		if err != nil {
			return nil, err
		}

		item := domain.Item{Name: name, Price: price, Quantity: quantity}
		total += item.Subtotal()
		items = append(items, item)
	}
}

// tracked учитывает в метриках каждый отклонённый ввод поля field.
func tracked[T any](m *metrics.OrderMetrics, field string, validate func(string) (T, error)) func(string) (T, error) {
	return func(raw string) (T, error) {
		value, err := validate(raw)
		if err != nil {
			m.RecordInputRejected(field)
		}
		return value, err
	}
}
