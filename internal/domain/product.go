package domain

import "time"

// ProductStatus описывает доступность позиции каталога.
type ProductStatus string

const (
	// ProductStatusAvailable — товар выставлен и доступен для заказа.
	ProductStatusAvailable ProductStatus = "available"
	// ProductStatusOrdered — товар выкуплен заказом и скрыт из публичного каталога.
	// Обратного перехода в available нет: отмена заказов не поддерживается.
	ProductStatusOrdered ProductStatus = "ordered"
)

// ParseProductStatus преобразует строку в ProductStatus.
// Неизвестное значение считается ошибкой валидации.
func ParseProductStatus(raw string) (ProductStatus, error) {
	switch ProductStatus(raw) {
	case ProductStatusAvailable:
		return ProductStatusAvailable, nil
	case ProductStatusOrdered:
		return ProductStatusOrdered, nil
	default:
		return "", ErrProductStatusUnknown
	}
}

const (
	// DiscountAge — возраст позиции каталога, начиная с которого заказ получает скидку.
	DiscountAge = 30 * 24 * time.Hour
	// DiscountRate — множитель цены при применении скидки.
	DiscountRate = 0.8
)

// Product описывает позицию каталога.
type Product struct {
	ID string
	// Name — человекочитаемое название, обязательное поле.
	Name string
	// Price — цена позиции, строго положительная.
	Price float64
	// ListedAt — момент выставления товара; от него отсчитывается скидочный возраст.
	ListedAt  time.Time
	Status    ProductStatus
	Version   int64
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты товара и возвращает список замечаний.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.Price <= 0 {
		errs = append(errs, ErrProductPriceInvalid)
	}
	if p.ListedAt.IsZero() {
		errs = append(errs, ErrProductDateRequired)
	}
	if p.Status != ProductStatusAvailable && p.Status != ProductStatusOrdered {
		errs = append(errs, ErrProductStatusUnknown)
	}

	return errs
}

// PriceAt вычисляет цену заказа на момент now: товары, выставленные
// DiscountAge назад и раньше, продаются со скидкой DiscountRate.
func (p *Product) PriceAt(now time.Time) (float64, OrderDiscount) {
	if now.Sub(p.ListedAt) >= DiscountAge {
		return p.Price * DiscountRate, OrderDiscountApplied
	}
	return p.Price, OrderDiscountNone
}

// Available сообщает, можно ли оформить заказ на товар.
func (p *Product) Available() bool {
	return p.Status == ProductStatusAvailable
}
