package domain

// Collection — имя персистентной коллекции заказов.
type Collection string

const (
	// CollectionPending — заказы, ожидающие выдачи.
	CollectionPending Collection = "pending"
	// CollectionCompleted — выданные заказы.
	CollectionCompleted Collection = "completed"
)

// HasOrderID сообщает, есть ли в коллекции заказ с таким идентификатором.
// Сравнение идёт по нормализованному значению.
func HasOrderID(orders []Order, id string) bool {
	id = NormalizeOrderID(id)
	for _, order := range orders {
		if NormalizeOrderID(order.ID) == id {
			return true
		}
	}
	return false
}

// CloneOrders возвращает независимую копию коллекции, включая срезы позиций.
func CloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, order := range orders {
		out[i] = cloneOrder(order)
	}
	return out
}

func cloneOrder(order Order) Order {
	items := make([]Item, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}
