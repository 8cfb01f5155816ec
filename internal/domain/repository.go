package domain

import "time"

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ошибку, если запись с таким ID уже существует.
	Create(product Product) error
	// CreateBatch сохраняет упорядоченный список товаров одной транзакцией:
	// либо записываются все, либо ни один.
	CreateBatch(products []Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound, если его нет.
	Get(id string) (Product, error)
	// List возвращает все товары, отсортированные по дате выставления (новые первыми).
	List() ([]Product, error)
	// Save применяет обновления к товару с учётом optimistic locking.
	Save(product Product) error
	// Delete удаляет товар или возвращает ErrProductNotFound.
	Delete(id string) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Place атомарно сохраняет заказ и переводит товар available -> ordered.
	// Конкурирующие вызовы по одному товару сериализуются: побеждает ровно один,
	// остальные получают ErrProductUnavailable. Товар без записи — ErrProductNotFound.
	Place(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// List возвращает все заказы без фильтрации.
	List() ([]Order, error)
	// ListPlacedBetween возвращает заказы строго внутри интервала (границы исключаются).
	ListPlacedBetween(from, to time.Time) ([]Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
}

// InvoiceRepository описывает требования к хранилищу счетов.
type InvoiceRepository interface {
	// Issue атомарно сохраняет счёт и переводит исходный заказ accepted -> paid.
	// Если заказ к этому моменту уже не в статусе accepted — ErrInvoiceOrderNotAccepted.
	Issue(invoice Invoice) error
	// List возвращает все счета, отсортированные по дате выставления (новые первыми).
	List() ([]Invoice, error)
}

// WipeResult — счётчики удалённых записей массовой очистки.
type WipeResult struct {
	OrdersDeleted   int
	InvoicesDeleted int
	ProductsDeleted int
}

// MaintenanceRepository выполняет административные операции над хранилищем целиком.
type MaintenanceRepository interface {
	// WipeAll удаляет заказы, счета и товары (именно в этом порядке) одной
	// транзакцией. При любой ошибке откатывается полностью.
	WipeAll() (WipeResult, error)
}
