package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// Store — in-memory реализация хранилища для локальной разработки и тестов.
// Все три коллекции живут под одним мьютексом, поэтому составные операции
// (Place, Issue, WipeAll) атомарны по построению.
type Store struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	orders   map[string]domain.Order
	invoices map[string]domain.Invoice
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		products: make(map[string]domain.Product),
		orders:   make(map[string]domain.Order),
		invoices: make(map[string]domain.Invoice),
	}
}

// Create сохраняет новый товар, если ID ещё не занят.
func (s *Store) Create(product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; exists {
		return domain.ErrVersionConflict
	}
	s.products[product.ID] = product
	return nil
}

// CreateBatch сохраняет список товаров целиком: при любом конфликте
// не записывается ни один.
func (s *Store) CreateBatch(products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range products {
		if _, exists := s.products[p.ID]; exists {
			return domain.ErrVersionConflict
		}
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (s *Store) Get(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// List возвращает все товары, новые первыми.
func (s *Store) List() ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].ListedAt.Equal(result[j].ListedAt) {
			return result[i].ListedAt.After(result[j].ListedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

// Save перезаписывает товар, проверяя версию (optimistic locking).
func (s *Store) Save(product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if current.Version != product.Version {
		return domain.ErrVersionConflict
	}
	product.Version++
	s.products[product.ID] = product
	return nil
}

// Delete удаляет товар или возвращает ErrProductNotFound.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// Place атомарно сохраняет заказ и переводит товар available -> ordered.
// Под общим мьютексом ровно один из конкурирующих вызовов застаёт товар
// доступным; остальные получают ErrProductUnavailable.
func (s *Store) Place(order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[order.ProductID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if !product.Available() {
		return domain.ErrProductUnavailable
	}
	if _, exists := s.orders[order.ID]; exists {
		return domain.ErrVersionConflict
	}

	product.Status = domain.ProductStatusOrdered
	product.Version++
	product.UpdatedAt = order.PlacedAt
	s.products[product.ID] = product
	s.orders[order.ID] = order
	return nil
}

// GetOrder возвращает заказ или ErrOrderNotFound, если его нет.
func (s *Store) GetOrder(id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListOrders возвращает все заказы, новые первыми.
func (s *Store) ListOrders() ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		result = append(result, o)
	}
	sortOrders(result)
	return result, nil
}

// ListPlacedBetween возвращает заказы строго внутри интервала: граничные
// моменты в выборку не попадают.
func (s *Store) ListPlacedBetween(from, to time.Time) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, o := range s.orders {
		if o.PlacedAt.After(from) && o.PlacedAt.Before(to) {
			result = append(result, o)
		}
	}
	sortOrders(result)
	return result, nil
}

// SaveOrder перезаписывает заказ, проверяя версию (optimistic locking).
func (s *Store) SaveOrder(order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrVersionConflict
	}
	order.Version++
	s.orders[order.ID] = order
	return nil
}

// Issue атомарно сохраняет счёт и переводит заказ accepted -> paid.
func (s *Store) Issue(invoice domain.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[invoice.OrderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusAccepted {
		return domain.ErrInvoiceOrderNotAccepted
	}

	order.Status = domain.OrderStatusPaid
	order.Version++
	order.UpdatedAt = invoice.IssuedAt
	s.orders[order.ID] = order
	s.invoices[invoice.ID] = invoice
	return nil
}

// ListInvoices возвращает все счета, новые первыми.
func (s *Store) ListInvoices() ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		result = append(result, inv)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].IssuedAt.Equal(result[j].IssuedAt) {
			return result[i].IssuedAt.After(result[j].IssuedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

// WipeAll удаляет заказы, счета и товары и возвращает счётчики удалённого.
func (s *Store) WipeAll() (domain.WipeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := domain.WipeResult{
		OrdersDeleted:   len(s.orders),
		InvoicesDeleted: len(s.invoices),
		ProductsDeleted: len(s.products),
	}

	s.orders = make(map[string]domain.Order)
	s.invoices = make(map[string]domain.Invoice)
	s.products = make(map[string]domain.Product)

	return result, nil
}

func sortOrders(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].PlacedAt.Equal(orders[j].PlacedAt) {
			return orders[i].PlacedAt.After(orders[j].PlacedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

// orderView адаптирует Store к OrderRepository: методы заказов в Store
// носят префикс, чтобы не конфликтовать с методами товаров.
type orderView struct{ store *Store }

func (v orderView) Place(order domain.Order) error      { return v.store.Place(order) }
func (v orderView) Get(id string) (domain.Order, error) { return v.store.GetOrder(id) }
func (v orderView) List() ([]domain.Order, error)       { return v.store.ListOrders() }
func (v orderView) ListPlacedBetween(from, to time.Time) ([]domain.Order, error) {
	return v.store.ListPlacedBetween(from, to)
}
func (v orderView) Save(order domain.Order) error { return v.store.SaveOrder(order) }

// invoiceView адаптирует Store к InvoiceRepository.
type invoiceView struct{ store *Store }

func (v invoiceView) Issue(invoice domain.Invoice) error { return v.store.Issue(invoice) }
func (v invoiceView) List() ([]domain.Invoice, error)    { return v.store.ListInvoices() }

// Products возвращает представление хранилища как ProductRepository.
func (s *Store) Products() domain.ProductRepository { return s }

// Orders возвращает представление хранилища как OrderRepository.
func (s *Store) Orders() domain.OrderRepository { return orderView{store: s} }

// Invoices возвращает представление хранилища как InvoiceRepository.
func (s *Store) Invoices() domain.InvoiceRepository { return invoiceView{store: s} }

// Maintenance возвращает представление хранилища как MaintenanceRepository.
func (s *Store) Maintenance() domain.MaintenanceRepository { return s }

var (
	_ domain.ProductRepository     = (*Store)(nil)
	_ domain.OrderRepository       = orderView{}
	_ domain.InvoiceRepository     = invoiceView{}
	_ domain.MaintenanceRepository = (*Store)(nil)
)
