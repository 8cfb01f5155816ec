package invoices_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/service/invoices"
	"github.com/vladislavdragonenkov/ims/internal/storage/memory"
)

var (
	anonymous  = domain.Identity{}
	seller     = domain.Identity{Username: "seller", Roles: []domain.Role{domain.RoleSeller}}
	cashier    = domain.Identity{Username: "cashier", Roles: []domain.Role{domain.RoleCashier}}
	accountant = domain.Identity{Username: "accountant", Roles: []domain.Role{domain.RoleAccountant}}
)

type fixture struct {
	svc    *invoices.Service
	store  *memory.Store
	outbox *memory.OutboxRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	outbox := memory.NewOutboxRepository()
	svc := invoices.NewService(
		store.Products(),
		store.Orders(),
		store.Invoices(),
		store.Maintenance(),
		outbox,
		nil,
		nil,
	)
	return fixture{svc: svc, store: store, outbox: outbox}
}

// seedOrder создаёт товар и заказ в заданном статусе.
func (f fixture) seedOrder(t *testing.T, status domain.OrderStatus) (domain.Product, domain.Order) {
	t.Helper()

	product := domain.Product{
		ID:       uuid.NewString(),
		Name:     "Armchair",
		Price:    500,
		ListedAt: time.Now().UTC().Add(-time.Hour),
		Status:   domain.ProductStatusAvailable,
	}
	require.NoError(t, f.store.Create(product))

	order := domain.Order{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Price:     400,
		PlacedAt:  time.Now().UTC(),
		Status:    domain.OrderStatusJustCreated,
		Discount:  domain.OrderDiscountApplied,
	}
	require.NoError(t, f.store.Place(order))

	if status != domain.OrderStatusJustCreated {
		stored, err := f.store.GetOrder(order.ID)
		require.NoError(t, err)
		stored.Status = status
		require.NoError(t, f.store.SaveOrder(stored))
		order.Status = status
	}

	return product, order
}

func TestCreateInvoiceRequiresAccountant(t *testing.T) {
	f := newFixture(t)
	_, order := f.seedOrder(t, domain.OrderStatusAccepted)

	for _, caller := range []domain.Identity{anonymous, seller, cashier} {
		_, err := f.svc.CreateInvoice(caller, order.ID)
		require.ErrorIs(t, err, domain.ErrForbidden)
	}
}

func TestCreateInvoiceRequiresAcceptedStatus(t *testing.T) {
	f := newFixture(t)

	for _, status := range []domain.OrderStatus{domain.OrderStatusJustCreated, domain.OrderStatusPaid} {
		_, order := f.seedOrder(t, status)
		_, err := f.svc.CreateInvoice(accountant, order.ID)
		require.ErrorIs(t, err, domain.ErrInvoiceOrderNotAccepted, "status %s", status)
	}
}

func TestCreateInvoiceSnapshotsAndFlipsOrder(t *testing.T) {
	f := newFixture(t)
	product, order := f.seedOrder(t, domain.OrderStatusAccepted)

	invoice, err := f.svc.CreateInvoice(accountant, order.ID)
	require.NoError(t, err)

	require.Equal(t, order.ID, invoice.OrderID)
	require.Equal(t, product.Name, invoice.ProductName)
	// Снимок цены берётся из заказа, то есть со скидкой.
	require.Equal(t, order.Price, invoice.ProductPrice)
	require.Equal(t, order.PlacedAt, invoice.OrderPlacedAt)
	require.False(t, invoice.IssuedAt.IsZero())

	paid, err := f.store.GetOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPaid, paid.Status)

	all, err := f.store.ListInvoices()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestCreateInvoiceOrderNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateInvoice(accountant, "missing")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCreateInvoiceProductDeleted(t *testing.T) {
	f := newFixture(t)
	product, order := f.seedOrder(t, domain.OrderStatusAccepted)

	// Товар удалён после оформления заказа: чистая ошибка вместо паники.
	require.NoError(t, f.store.Delete(product.ID))

	_, err := f.svc.CreateInvoice(accountant, order.ID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCreateInvoiceEnqueuesEvent(t *testing.T) {
	f := newFixture(t)
	_, order := f.seedOrder(t, domain.OrderStatusAccepted)

	invoice, err := f.svc.CreateInvoice(accountant, order.ID)
	require.NoError(t, err)

	pending, err := f.outbox.PullPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, invoices.EventInvoiceIssued, pending[0].EventType)
	require.Equal(t, invoice.ID, pending[0].AggregateID)
}

func TestListInvoicesRequiresAccountant(t *testing.T) {
	f := newFixture(t)

	for _, caller := range []domain.Identity{anonymous, seller, cashier} {
		_, err := f.svc.ListInvoices(caller)
		require.ErrorIs(t, err, domain.ErrForbidden)
	}

	list, err := f.svc.ListInvoices(accountant)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestWipeAllDataRequiresAccountant(t *testing.T) {
	f := newFixture(t)

	for _, caller := range []domain.Identity{anonymous, seller, cashier} {
		_, err := f.svc.WipeAllData(caller)
		require.ErrorIs(t, err, domain.ErrForbidden)
	}
}

func TestWipeAllDataCounts(t *testing.T) {
	f := newFixture(t)
	_, order := f.seedOrder(t, domain.OrderStatusAccepted)

	_, err := f.svc.CreateInvoice(accountant, order.ID)
	require.NoError(t, err)

	result, err := f.svc.WipeAllData(accountant)
	require.NoError(t, err)
	require.Equal(t, domain.WipeResult{OrdersDeleted: 1, InvoicesDeleted: 1, ProductsDeleted: 1}, result)

	products, err := f.store.List()
	require.NoError(t, err)
	require.Empty(t, products)
}
