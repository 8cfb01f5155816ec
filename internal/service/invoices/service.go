package invoices

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/metrics"
)

// События, публикуемые через outbox.
const (
	EventInvoiceIssued = "invoice.issued"
	EventStoreWiped    = "store.wiped"

	aggregateInvoice = "invoice"
	aggregateStore   = "store"
)

// Service выставляет счета по принятым заказам и выполняет массовую очистку.
// Все операции доступны только бухгалтеру.
type Service struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	invoices domain.InvoiceRepository
	maint    domain.MaintenanceRepository
	outbox   domain.OutboxRepository
	metrics  *metrics.Metrics
	logger   *log.Entry
}

// NewService конструирует сервис счетов. outbox может быть nil.
func NewService(
	products domain.ProductRepository,
	orders domain.OrderRepository,
	invoices domain.InvoiceRepository,
	maint domain.MaintenanceRepository,
	outbox domain.OutboxRepository,
	m *metrics.Metrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "invoices")
	}
	return &Service{
		products: products,
		orders:   orders,
		invoices: invoices,
		maint:    maint,
		outbox:   outbox,
		metrics:  m,
		logger:   logger,
	}
}

// CreateInvoice выставляет счёт по принятому заказу и переводит заказ в paid.
// Снимок полей делается здесь: последующие правки товара или заказа на счёт
// не влияют. ProductPrice — цена из заказа, то есть уже со скидкой.
func (s *Service) CreateInvoice(caller domain.Identity, orderID string) (domain.Invoice, error) {
	if !caller.HasRole(domain.RoleAccountant) {
		return domain.Invoice{}, domain.ErrForbidden
	}

	order, err := s.orders.Get(orderID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if order.Status != domain.OrderStatusAccepted {
		return domain.Invoice{}, domain.ErrInvoiceOrderNotAccepted
	}

	// Товар мог быть удалён после оформления заказа; счёт без снимка
	// названия не выставляем.
	product, err := s.products.Get(order.ProductID)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice := domain.Invoice{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		ProductName:   product.Name,
		ProductPrice:  order.Price,
		OrderPlacedAt: order.PlacedAt,
		IssuedAt:      time.Now().UTC(),
	}

	if err := s.invoices.Issue(invoice); err != nil {
		return domain.Invoice{}, err
	}

	s.logger.WithFields(log.Fields{"invoice_id": invoice.ID, "order_id": order.ID}).Info("invoice issued")
	s.metrics.InvoiceIssued()
	s.publishInvoice(invoice)

	return invoice, nil
}

// ListInvoices возвращает все счета. Доступно только бухгалтеру.
func (s *Service) ListInvoices(caller domain.Identity) ([]domain.Invoice, error) {
	if !caller.HasRole(domain.RoleAccountant) {
		return nil, domain.ErrForbidden
	}

	invoices, err := s.invoices.List()
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// WipeAllData удаляет заказы, счета и товары одной транзакцией и возвращает
// счётчики удалённого. Частичная очистка невозможна: при ошибке хранилище
// откатывается целиком.
func (s *Service) WipeAllData(caller domain.Identity) (domain.WipeResult, error) {
	if !caller.HasRole(domain.RoleAccountant) {
		return domain.WipeResult{}, domain.ErrForbidden
	}

	result, err := s.maint.WipeAll()
	if err != nil {
		return domain.WipeResult{}, fmt.Errorf("wipe all data: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"orders_deleted":   result.OrdersDeleted,
		"invoices_deleted": result.InvoicesDeleted,
		"products_deleted": result.ProductsDeleted,
	}).Warn("all data wiped")
	s.metrics.StoreWiped()
	s.publishWipe(result)

	return result, nil
}

func (s *Service) publishInvoice(invoice domain.Invoice) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"invoice_id":    invoice.ID,
		"order_id":      invoice.OrderID,
		"product_name":  invoice.ProductName,
		"product_price": invoice.ProductPrice,
		"issued_at":     invoice.IssuedAt,
	})
	if err != nil {
		s.logger.WithError(err).Warn("marshal invoice event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateInvoice,
		AggregateID:   invoice.ID,
		EventType:     EventInvoiceIssued,
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("invoice_id", invoice.ID).Warn("enqueue invoice event")
	}
}

func (s *Service) publishWipe(result domain.WipeResult) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"orders_deleted":   result.OrdersDeleted,
		"invoices_deleted": result.InvoicesDeleted,
		"products_deleted": result.ProductsDeleted,
	})
	if err != nil {
		s.logger.WithError(err).Warn("marshal wipe event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateStore,
		AggregateID:   aggregateStore,
		EventType:     EventStoreWiped,
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).Warn("enqueue wipe event")
	}
}
