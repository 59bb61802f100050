package domain

import "context"

// CollectionStore описывает требования к хранилищу коллекций заказов.
type CollectionStore interface {
	// Load возвращает коллекцию целиком. Отсутствующая коллекция — это пустой список, не ошибка.
	Load(ctx context.Context, name Collection) ([]Order, error)
	// Save полностью перезаписывает коллекцию.
	Save(ctx context.Context, name Collection, orders []Order) error
}

// AtomicCollectionStore — хранилище, умеющее перезаписать несколько коллекций одной транзакцией.
// Fulfillment использует его, если оно доступно, чтобы перенос заказа не терялся между двумя записями.
type AtomicCollectionStore interface {
	CollectionStore
	SaveAll(ctx context.Context, collections map[Collection][]Order) error
}
