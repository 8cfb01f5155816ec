package domain

import "errors"

var (
	// Ошибки валидации товара.
	ErrProductNameRequired  = errors.New("product name is required")
	ErrProductPriceInvalid  = errors.New("product price must be greater than zero")
	ErrProductDateRequired  = errors.New("product date is required")
	ErrProductStatusUnknown = errors.New("unknown product status")

	// ErrProductNotFound возвращается, если товар не найден в хранилище.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductUnavailable возвращается при попытке заказать уже выкупленный товар.
	// Конкурирующие заказы на один товар получают эту ошибку вместо двойной продажи.
	ErrProductUnavailable = errors.New("product is not available for ordering")

	// Ошибки валидации заказа.
	ErrOrderProductRequired = errors.New("order product_id is required")
	ErrOrderPriceInvalid    = errors.New("order price must be non-negative")
	ErrOrderStatusUnknown   = errors.New("unknown order status")
	ErrOrderDiscountUnknown = errors.New("unknown order discount")

	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderTransitionDenied — запрошенный переход нарушает машину состояний заказа.
	ErrOrderTransitionDenied = errors.New("order status transition is not allowed")
	// ErrInvoiceOrderNotAccepted — счёт можно выставить только по принятому заказу.
	ErrInvoiceOrderNotAccepted = errors.New("cannot generate invoice for this order")

	// ErrDateRangeRequired — обе границы периода обязательны.
	ErrDateRangeRequired = errors.New("from_date and to_date parameters are required")
	// ErrDateFormatInvalid — дата не разбирается как ISO-8601.
	ErrDateFormatInvalid = errors.New("invalid date format")

	// ErrUnauthenticated — операция требует аутентифицированного вызывающего.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden — вызывающий аутентифицирован, но не имеет нужной роли.
	ErrForbidden = errors.New("caller lacks required role")

	// ErrVersionConflict сигнализирует о конфликте версий при сохранении записи.
	ErrVersionConflict = errors.New("record version conflict")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsNotFound проверяет, относится ли ошибка к отсутствующей сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrOrderNotFound)
}

// IsValidation проверяет, относится ли ошибка к некорректному входу вызывающего.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrProductNameRequired,
		ErrProductPriceInvalid,
		ErrProductDateRequired,
		ErrProductStatusUnknown,
		ErrOrderStatusUnknown,
		ErrDateRangeRequired,
		ErrDateFormatInvalid,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
