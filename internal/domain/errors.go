package domain

import "errors"

var (
	// ErrDuplicateOrderID возвращается, если заказ с таким идентификатором уже есть в коллекции.
	ErrDuplicateOrderID = errors.New("order id already exists")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка ввода, который не является целым числом.
	ErrNotInteger = errors.New("value must be an integer")
	// Ошибка, если цена позиции отрицательная.
	ErrPriceInvalid = errors.New("price must not be negative")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrQuantityInvalid = errors.New("quantity must be a positive integer")
	// ErrAmountTooLarge — стоимость позиции или сумма заказа не помещается в int64.
	ErrAmountTooLarge = errors.New("amount is too large")
	// ErrInputTooLong — строка ввода длиннее MaxLineLength.
	ErrInputTooLong = errors.New("input line is too long")
	// ErrMenuChoiceInvalid — пункт меню вне допустимого набора.
	ErrMenuChoiceInvalid = errors.New("choose a valid option (1-4)")
	// ErrSelectionNotNumber — выбор заказа не является числом.
	ErrSelectionNotNumber = errors.New("enter a valid number")
	// ErrSelectionOutOfRange — номер заказа вне списка.
	ErrSelectionOutOfRange = errors.New("choose a valid order number")
	// ErrOrderNotFound возвращается, если позиция в коллекции не существует.
	ErrOrderNotFound = errors.New("order not found")
	// ErrMalformedData — файл коллекции существует, но не разбирается.
	ErrMalformedData = errors.New("malformed order data")
	// ErrUnknownCollection — хранилище не знает коллекцию с таким именем.
	ErrUnknownCollection = errors.New("unknown collection")
)

// IsValidationError проверяет, относится ли ошибка к ошибкам ввода, которые лечатся повторным запросом.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNotInteger) ||
		errors.Is(err, ErrPriceInvalid) ||
		errors.Is(err, ErrQuantityInvalid) ||
		errors.Is(err, ErrAmountTooLarge) ||
		errors.Is(err, ErrInputTooLong) ||
		errors.Is(err, ErrMenuChoiceInvalid) ||
		errors.Is(err, ErrSelectionNotNumber) ||
		errors.Is(err, ErrSelectionOutOfRange)
}

// IsUserError сообщает, что операцию отклонили из-за данных пользователя,
// а не из-за поломки хранилища.
func IsUserError(err error) bool {
	return errors.Is(err, ErrDuplicateOrderID) ||
		errors.Is(err, ErrItemsRequired) ||
		IsValidationError(err)
}
