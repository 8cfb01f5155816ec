package domain

import "time"

// Invoice — неизменяемый снимок принятого заказа.
// Поля копируются в момент выставления, поэтому последующие правки
// товара или заказа на счёт не влияют.
type Invoice struct {
	ID string
	// OrderID ссылается на исходный заказ; живым foreign key не является.
	OrderID      string
	ProductName  string
	ProductPrice float64
	// OrderPlacedAt — момент оформления исходного заказа (снимок).
	OrderPlacedAt time.Time
	// IssuedAt — момент выставления счёта.
	IssuedAt time.Time
}
