package orders

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/metrics"
)

// События жизненного цикла заказа, публикуемые через outbox.
const (
	EventOrderPlaced   = "order.placed"
	EventOrderAccepted = "order.accepted"
	EventOrderEdited   = "order.status_edited"

	aggregateOrder = "order"
)

// Service реализует машину состояний заказа и правило скидки при оформлении.
type Service struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	outbox   domain.OutboxRepository
	metrics  *metrics.Metrics
	logger   *log.Entry
}

// NewService конструирует сервис заказов. outbox может быть nil —
// тогда события жизненного цикла не публикуются.
func NewService(
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	m *metrics.Metrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "orders")
	}
	return &Service{
		products: products,
		orders:   orders,
		outbox:   outbox,
		metrics:  m,
		logger:   logger,
	}
}

// PlaceOrder оформляет заказ на товар. Операция публичная: витрина
// не требует аутентификации. Цена и признак скидки фиксируются здесь
// и больше не пересчитываются; товар переводится в ordered атомарно
// с записью заказа.
func (s *Service) PlaceOrder(productID string) (domain.Order, error) {
	product, err := s.products.Get(productID)
	if err != nil {
		return domain.Order{}, err
	}

	now := time.Now().UTC()
	price, discount := product.PriceAt(now)

	order := domain.Order{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Price:     price,
		PlacedAt:  now,
		Status:    domain.OrderStatusJustCreated,
		Discount:  discount,
		Version:   0,
		UpdatedAt: now,
	}

	if err := s.orders.Place(order); err != nil {
		return domain.Order{}, err
	}

	s.logger.WithFields(log.Fields{
		"order_id":   order.ID,
		"product_id": order.ProductID,
		"discount":   order.Discount,
	}).Info("order placed")
	s.metrics.OrderPlaced(discount == domain.OrderDiscountApplied)
	s.publish(EventOrderPlaced, order)

	return order, nil
}

// ListOrders возвращает все заказы. Операция публичная и без фильтрации.
func (s *Service) ListOrders() ([]domain.Order, error) {
	orders, err := s.orders.List()
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// EditOrderStatus меняет статус заказа. Исторически поле перезаписывалось
// произвольной строкой; теперь значение обязано быть известным статусом,
// а переход — разрешённым машиной состояний.
func (s *Service) EditOrderStatus(orderID, rawStatus string) (domain.Order, error) {
	next, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if !order.Status.CanTransition(next) {
		return domain.Order{}, fmt.Errorf("%s -> %s: %w", order.Status, next, domain.ErrOrderTransitionDenied)
	}

	order.Status = next
	order.UpdatedAt = time.Now().UTC()
	if err := s.orders.Save(order); err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}

	s.logger.WithFields(log.Fields{"order_id": order.ID, "status": next}).Info("order status edited")
	s.publish(EventOrderEdited, order)

	return s.orders.Get(orderID)
}

// FindByPeriod возвращает заказы, оформленные строго между from и to
// (границы исключаются). Доступно только бухгалтеру.
func (s *Service) FindByPeriod(caller domain.Identity, from, to time.Time) ([]domain.Order, error) {
	if !caller.HasRole(domain.RoleAccountant) {
		return nil, domain.ErrForbidden
	}
	if from.IsZero() || to.IsZero() {
		return nil, domain.ErrDateRangeRequired
	}

	orders, err := s.orders.ListPlacedBetween(from, to)
	if err != nil {
		return nil, fmt.Errorf("find orders by period: %w", err)
	}
	return orders, nil
}

// AcceptOrder переводит заказ just_created -> accepted. Доступно только
// бухгалтеру. Повторное принятие и принятие оплаченного заказа запрещены:
// прежняя логика позволяла это, здесь переход проверяется явно.
func (s *Service) AcceptOrder(caller domain.Identity, orderID string) (domain.Order, error) {
	if !caller.HasRole(domain.RoleAccountant) {
		return domain.Order{}, domain.ErrForbidden
	}

	order, err := s.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if !order.Status.CanTransition(domain.OrderStatusAccepted) {
		return domain.Order{}, fmt.Errorf("%s -> %s: %w", order.Status, domain.OrderStatusAccepted, domain.ErrOrderTransitionDenied)
	}

	order.Status = domain.OrderStatusAccepted
	order.UpdatedAt = time.Now().UTC()
	if err := s.orders.Save(order); err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}

	s.logger.WithField("order_id", order.ID).Info("order accepted")
	s.metrics.OrderAccepted()
	s.publish(EventOrderAccepted, order)

	return s.orders.Get(orderID)
}

// publish ставит событие жизненного цикла в outbox. Ошибка постановки
// не валит бизнес-операцию: заказ уже записан, событие можно потерять
// только вместе с предупреждением в логе.
func (s *Service) publish(eventType string, order domain.Order) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"order_id":   order.ID,
		"product_id": order.ProductID,
		"price":      order.Price,
		"status":     order.Status,
		"discount":   order.Discount,
		"placed_at":  order.PlacedAt,
	})
	if err != nil {
		s.logger.WithError(err).Warn("marshal order event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateOrder,
		AggregateID:   order.ID,
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("enqueue order event")
	}
}
