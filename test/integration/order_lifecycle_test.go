package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/service/catalog"
	"github.com/vladislavdragonenkov/ims/internal/service/invoices"
	"github.com/vladislavdragonenkov/ims/internal/service/orders"
	"github.com/vladislavdragonenkov/ims/internal/service/outbox"
	"github.com/vladislavdragonenkov/ims/internal/storage/memory"
)

type recordingPublisher struct {
	events []domain.OutboxMessage
}

func (p *recordingPublisher) Publish(event domain.OutboxMessage) error {
	p.events = append(p.events, event)
	return nil
}

// Полный жизненный цикл поверх in-memory хранилища: товар со скидочным
// возрастом проходит путь от каталога до счёта, события доезжают до
// паблишера через outbox worker, очистка возвращает счётчики.
func TestOrderLifecycle(t *testing.T) {
	store := memory.NewStore()
	outboxRepo := memory.NewOutboxRepository()

	catalogSvc := catalog.NewService(store, nil, nil)
	ordersSvc := orders.NewService(store, store.Orders(), outboxRepo, nil, nil)
	invoicesSvc := invoices.NewService(store, store.Orders(), store.Invoices(), store.Maintenance(), outboxRepo, nil, nil)

	seller := domain.Identity{Username: "seller", Roles: []domain.Role{domain.RoleSeller}}
	accountant := domain.Identity{Username: "accountant", Roles: []domain.Role{domain.RoleAccountant}}

	// Товар выставлен 40 дней назад: заказ обязан получить скидку.
	product, err := catalogSvc.CreateProduct(seller, catalog.CreateInput{
		Name:     "steel valve",
		Price:    200,
		ListedAt: time.Now().UTC().Add(-40 * 24 * time.Hour),
	})
	require.NoError(t, err)

	order, err := ordersSvc.PlaceOrder(product.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusJustCreated, order.Status)
	assert.Equal(t, domain.OrderDiscountApplied, order.Discount)
	assert.InDelta(t, 160, order.Price, 0.001)

	// Товар ушёл из публичной витрины.
	listing, err := catalogSvc.ListProducts(domain.Identity{})
	require.NoError(t, err)
	assert.Empty(t, listing.Products)

	// Принятие и счёт — операции бухгалтера.
	_, err = ordersSvc.AcceptOrder(seller, order.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	accepted, err := ordersSvc.AcceptOrder(accountant, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAccepted, accepted.Status)

	invoice, err := invoicesSvc.CreateInvoice(accountant, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "steel valve", invoice.ProductName)
	assert.InDelta(t, 160, invoice.ProductPrice, 0.001)

	paid, err := store.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, paid.Status)

	// Счёт — снимок: правка товара после выставления его не меняет.
	newName := "renamed valve"
	_, err = catalogSvc.PatchProduct(seller, product.ID, catalog.ChangeInput{Name: &newName})
	require.NoError(t, err)

	list, err := invoicesSvc.ListInvoices(accountant)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "steel valve", list[0].ProductName)

	// Outbox worker доносит накопленные события до паблишера.
	publisher := &recordingPublisher{}
	worker := outbox.NewWorker(outboxRepo, publisher, outbox.WithRetryBaseDelay(0))
	worker.ProcessOnce(context.Background())

	eventTypes := make([]string, 0, len(publisher.events))
	for _, e := range publisher.events {
		eventTypes = append(eventTypes, e.EventType)
	}
	assert.Contains(t, eventTypes, orders.EventOrderPlaced)
	assert.Contains(t, eventTypes, orders.EventOrderAccepted)
	assert.Contains(t, eventTypes, invoices.EventInvoiceIssued)

	stats, err := outboxRepo.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.PendingCount)

	// Полная очистка возвращает счётчики по каждой коллекции.
	result, err := invoicesSvc.WipeAllData(accountant)
	require.NoError(t, err)
	assert.Equal(t, domain.WipeResult{OrdersDeleted: 1, InvoicesDeleted: 1, ProductsDeleted: 1}, result)
}
