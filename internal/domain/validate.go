package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MenuChoice — пункт главного меню.
type MenuChoice int

const (
	MenuQuit MenuChoice = iota
	MenuAddOrder
	MenuReport
	MenuFulfill
)

// ValidatePrice разбирает цену: целое число >= 0.
func ValidatePrice(raw string) (int64, error) {
	value, err := parseInteger(raw)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, ErrPriceInvalid
	}
	return value, nil
}

// ValidateQuantity разбирает количество: целое число > 0.
func ValidateQuantity(raw string) (int64, error) {
	value, err := parseInteger(raw)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, ErrQuantityInvalid
	}
	return value, nil
}

// ValidateItemPrice разбирает цену новой позиции и проверяет, что заказ с суммой total
// примет её хотя бы в одном экземпляре; иначе ни одно количество не подошло бы.
func ValidateItemPrice(raw string, total int64) (int64, error) {
	price, err := ValidatePrice(raw)
	if err != nil {
		return 0, err
	}
	if _, err := AddAmount(total, price); err != nil {
		return 0, err
	}
	return price, nil
}

// ValidateItemQuantity разбирает количество для позиции с ценой price и проверяет,
// что её стоимость и новая сумма заказа (total до этой позиции) помещаются в int64.
func ValidateItemQuantity(raw string, price, total int64) (int64, error) {
	quantity, err := ValidateQuantity(raw)
	if err != nil {
		return 0, err
	}
	subtotal, err := MulAmount(price, quantity)
	if err != nil {
		return 0, err
	}
	if _, err := AddAmount(total, subtotal); err != nil {
		return 0, err
	}
	return quantity, nil
}

// ValidateMenuChoice сопоставляет ввод с пунктом меню. Пустая строка и "4" означают выход.
func ValidateMenuChoice(raw string) (MenuChoice, error) {
	switch strings.TrimSpace(raw) {
	case "", "4":
		return MenuQuit, nil
	case "1":
		return MenuAddOrder, nil
	case "2":
		return MenuReport, nil
	case "3":
		return MenuFulfill, nil
	default:
		return 0, ErrMenuChoiceInvalid
	}
}

// ValidateSelection переводит 1-based выбор оператора в индекс коллекции размером size.
// Допускаются только десятичные цифры; пустую строку (отмену) обрабатывает вызывающий код.
func ValidateSelection(raw string, size int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return 0, ErrSelectionNotNumber
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Только цифры, но не влезает в int.
		return 0, ErrSelectionOutOfRange
	}
	if n < 1 || n > size {
		return 0, ErrSelectionOutOfRange
	}
	return n - 1, nil
}

func parseInteger(raw string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, strings.TrimSpace(raw))
	}
	return value, nil
}
