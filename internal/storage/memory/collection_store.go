package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
)

// collectionStoreInMemory — простая in-memory реализация CollectionStore.
type collectionStoreInMemory struct {
	mu          sync.RWMutex
	collections map[domain.Collection][]domain.Order
}

// NewCollectionStore возвращает in-memory хранилище для тестов и встраивания.
func NewCollectionStore() domain.CollectionStore {
	return &collectionStoreInMemory{
		collections: make(map[domain.Collection][]domain.Order),
	}
}

// Load возвращает копию коллекции; неизвестная ещё коллекция пуста.
func (s *collectionStoreInMemory) Load(ctx context.Context, name domain.Collection) ([]domain.Order, error) {
	if err := checkCollection(ctx, name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Отдаём копию, чтобы вызывающий код не мутировал хранилище.
	return domain.CloneOrders(s.collections[name]), nil
}

// Save заменяет коллекцию копией orders.
func (s *collectionStoreInMemory) Save(ctx context.Context, name domain.Collection, orders []domain.Order) error {
	if err := checkCollection(ctx, name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[name] = domain.CloneOrders(orders)
	return nil
}

func checkCollection(ctx context.Context, name domain.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch name {
	case domain.CollectionPending, domain.CollectionCompleted:
		return nil
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownCollection, name)
	}
}

var _ domain.CollectionStore = (*collectionStoreInMemory)(nil)
