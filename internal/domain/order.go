package domain

import (
	"math"
	"math/bits"
	"strings"
)

// Item представляет одну позицию заказа.
type Item struct {
	// Name — название товара, как его ввёл оператор.
	Name string `json:"name"`
	// Price — цена за единицу в целых денежных единицах.
	Price int64 `json:"price"`
	// Quantity — количество единиц товара.
	Quantity int64 `json:"quantity"`
}

// Subtotal возвращает стоимость позиции: price * quantity.
func (i Item) Subtotal() int64 {
	return i.Price * i.Quantity
}

// MulAmount возвращает price * quantity для неотрицательных значений
// или ErrAmountTooLarge, если произведение не помещается в int64.
func MulAmount(price, quantity int64) (int64, error) {
	if price < 0 || quantity < 0 {
		return 0, ErrAmountTooLarge
	}
	hi, lo := bits.Mul64(uint64(price), uint64(quantity))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, ErrAmountTooLarge
	}
	return int64(lo), nil
}

// AddAmount складывает неотрицательные суммы с проверкой переполнения.
func AddAmount(total, amount int64) (int64, error) {
	if amount > math.MaxInt64-total {
		return 0, ErrAmountTooLarge
	}
	return total + amount, nil
}

// Order агрегирует заказ клиента и его позиции.
type Order struct {
	ID       string `json:"order_id"`
	Customer string `json:"customer"`
	Items    []Item `json:"items"`
}

// Total возвращает сумму всех позиций заказа. Переполнение отсекает ValidateInvariants.
func (o Order) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
// Пустой идентификатор допустим: он тоже уникален в пределах коллекции.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	var (
		total    int64
		overflow bool
	)
	for _, item := range o.Items {
		if item.Price < 0 {
			errs = append(errs, ErrPriceInvalid)
		}
		if item.Quantity <= 0 {
			errs = append(errs, ErrQuantityInvalid)
		}
		if overflow || item.Price < 0 || item.Quantity <= 0 {
			continue
		}
		subtotal, err := MulAmount(item.Price, item.Quantity)
		if err == nil {
			total, err = AddAmount(total, subtotal)
		}
		overflow = err != nil
	}
	if overflow {
		errs = append(errs, ErrAmountTooLarge)
	}

	return errs
}

// NormalizeOrderID приводит идентификатор к каноническому виду: без пробелов по краям, в верхнем регистре.
func NormalizeOrderID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
