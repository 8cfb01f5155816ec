package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusJustCreated — заказ оформлен покупателем, но ещё не принят.
	OrderStatusJustCreated OrderStatus = "just_created"
	// OrderStatusAccepted — заказ принят бухгалтером и готов к выставлению счёта.
	OrderStatusAccepted OrderStatus = "accepted"
	// OrderStatusPaid — по заказу выставлен счёт, цикл завершён.
	OrderStatusPaid OrderStatus = "paid"
)

// ParseOrderStatus преобразует строку в OrderStatus.
// Произвольный текст статусом не является: это осознанное ужесточение
// по сравнению со свободным редактированием поля.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(raw) {
	case OrderStatusJustCreated:
		return OrderStatusJustCreated, nil
	case OrderStatusAccepted:
		return OrderStatusAccepted, nil
	case OrderStatusPaid:
		return OrderStatusPaid, nil
	default:
		return "", ErrOrderStatusUnknown
	}
}

// CanTransition сообщает, разрешён ли переход из текущего статуса в next.
// Машина состояний линейная: just_created -> accepted -> paid.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderStatusJustCreated:
		return next == OrderStatusAccepted
	case OrderStatusAccepted:
		return next == OrderStatusPaid
	default:
		return false
	}
}

// OrderDiscount фиксирует, была ли применена скидка при оформлении заказа.
type OrderDiscount string

const (
	// OrderDiscountApplied — цена заказа уменьшена на скидочный множитель.
	OrderDiscountApplied OrderDiscount = "with_discount"
	// OrderDiscountNone — заказ оформлен по полной цене.
	OrderDiscountNone OrderDiscount = "without_discount"
)

// Order агрегирует состояние заказа.
// Price и Discount вычисляются один раз при оформлении и далее не пересчитываются.
type Order struct {
	ID        string
	ProductID string
	Price     float64
	// PlacedAt — момент оформления заказа.
	PlacedAt  time.Time
	Status    OrderStatus
	Discount  OrderDiscount
	Version   int64
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.ProductID == "" {
		errs = append(errs, ErrOrderProductRequired)
	}
	if o.Price < 0 {
		errs = append(errs, ErrOrderPriceInvalid)
	}
	if _, err := ParseOrderStatus(string(o.Status)); err != nil {
		errs = append(errs, ErrOrderStatusUnknown)
	}
	if o.Discount != OrderDiscountApplied && o.Discount != OrderDiscountNone {
		errs = append(errs, ErrOrderDiscountUnknown)
	}

	return errs
}
