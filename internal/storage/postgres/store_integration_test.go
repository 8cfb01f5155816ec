package postgres

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

func seedProductForIntegrationTest(t *testing.T, store *Store, status domain.ProductStatus) domain.Product {
	t.Helper()

	product := domain.Product{
		ID:        uuid.NewString(),
		Name:      "integration bolt",
		Price:     120,
		ListedAt:  time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond),
		Status:    status,
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := NewProductRepository(store).Create(product); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestProductRepositoryRoundTrip(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	seeded := seedProductForIntegrationTest(t, store, domain.ProductStatusAvailable)

	got, err := repo.Get(seeded.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Name != seeded.Name || got.Status != domain.ProductStatusAvailable {
		t.Fatalf("unexpected product: %+v", got)
	}

	got.Price = 99
	if err := repo.Save(got); err != nil {
		t.Fatalf("save product: %v", err)
	}

	// Повторный Save со старой версией должен упереться в конфликт.
	if err := repo.Save(got); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	if err := repo.Delete(seeded.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := repo.Get(seeded.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestOrderRepositoryPlaceSingleWinner(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderRepository(store)

	product := seedProductForIntegrationTest(t, store, domain.ProductStatusAvailable)

	const attempts = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		won      int
		rejected int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := orders.Place(domain.Order{
				ID:        uuid.NewString(),
				ProductID: product.ID,
				Price:     product.Price,
				PlacedAt:  time.Now().UTC().Truncate(time.Microsecond),
				Status:    domain.OrderStatusJustCreated,
				Discount:  domain.OrderDiscountNone,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, domain.ErrProductUnavailable):
				rejected++
			default:
				t.Errorf("unexpected place error: %v", err)
			}
		}()
	}
	wg.Wait()

	if won != 1 || rejected != attempts-1 {
		t.Fatalf("expected exactly one winner, got won=%d rejected=%d", won, rejected)
	}

	updated, err := NewProductRepository(store).Get(product.ID)
	if err != nil {
		t.Fatalf("get product after place: %v", err)
	}
	if updated.Status != domain.ProductStatusOrdered {
		t.Fatalf("product must be ordered after placement, got %s", updated.Status)
	}
}

func TestOrderRepositoryListPlacedBetweenStrictBounds(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderRepository(store)

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{-time.Hour, 0, time.Hour} {
		product := seedProductForIntegrationTest(t, store, domain.ProductStatusAvailable)
		if err := orders.Place(domain.Order{
			ID:        uuid.NewString(),
			ProductID: product.ID,
			Price:     10,
			PlacedAt:  base.Add(offset),
			Status:    domain.OrderStatusJustCreated,
			Discount:  domain.OrderDiscountNone,
		}); err != nil {
			t.Fatalf("place order: %v", err)
		}
	}

	found, err := orders.ListPlacedBetween(base.Add(-time.Hour), base.Add(time.Hour))
	if err != nil {
		t.Fatalf("list placed between: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("bounds must be exclusive, got %d orders", len(found))
	}
}

func TestInvoiceRepositoryIssueFlipsOrderToPaid(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderRepository(store)
	invoices := NewInvoiceRepository(store)

	product := seedProductForIntegrationTest(t, store, domain.ProductStatusAvailable)
	order := domain.Order{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Price:     product.Price,
		PlacedAt:  time.Now().UTC().Truncate(time.Microsecond),
		Status:    domain.OrderStatusJustCreated,
		Discount:  domain.OrderDiscountNone,
	}
	if err := orders.Place(order); err != nil {
		t.Fatalf("place order: %v", err)
	}

	invoice := domain.Invoice{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		ProductName:   product.Name,
		ProductPrice:  order.Price,
		OrderPlacedAt: order.PlacedAt,
		IssuedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}

	// Заказ ещё just_created: счёт не выписывается.
	if err := invoices.Issue(invoice); !errors.Is(err, domain.ErrInvoiceOrderNotAccepted) {
		t.Fatalf("expected not accepted error, got %v", err)
	}

	order.Status = domain.OrderStatusAccepted
	order.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	if err := orders.Save(order); err != nil {
		t.Fatalf("accept order: %v", err)
	}

	if err := invoices.Issue(invoice); err != nil {
		t.Fatalf("issue invoice: %v", err)
	}

	paid, err := orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get order after issue: %v", err)
	}
	if paid.Status != domain.OrderStatusPaid {
		t.Fatalf("order must be paid after invoice, got %s", paid.Status)
	}

	list, err := invoices.List()
	if err != nil {
		t.Fatalf("list invoices: %v", err)
	}
	if len(list) != 1 || list[0].OrderID != order.ID {
		t.Fatalf("unexpected invoice list: %+v", list)
	}
}

func TestMaintenanceRepositoryWipeAllCounts(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderRepository(store)

	product := seedProductForIntegrationTest(t, store, domain.ProductStatusAvailable)
	if err := orders.Place(domain.Order{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Price:     product.Price,
		PlacedAt:  time.Now().UTC().Truncate(time.Microsecond),
		Status:    domain.OrderStatusJustCreated,
		Discount:  domain.OrderDiscountNone,
	}); err != nil {
		t.Fatalf("place order: %v", err)
	}

	result, err := NewMaintenanceRepository(store).WipeAll()
	if err != nil {
		t.Fatalf("wipe all: %v", err)
	}
	if result.OrdersDeleted != 1 || result.ProductsDeleted != 1 || result.InvoicesDeleted != 0 {
		t.Fatalf("unexpected wipe counts: %+v", result)
	}
}

func TestOutboxRepositoryLifecycle(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	outbox := NewOutboxRepository(store)

	msg, err := outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   uuid.NewString(),
		EventType:     "order.placed",
		Payload:       []byte(`{"ok":true}`),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if msg.ID == "" {
		t.Fatal("enqueue must assign message ID")
	}

	pending, err := outbox.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != msg.ID {
		t.Fatalf("unexpected pending set: %+v", pending)
	}

	if err := outbox.MarkSent(msg.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	stats, err := outbox.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PendingCount != 0 {
		t.Fatalf("expected empty backlog, got %+v", stats)
	}

	if err := outbox.MarkSent(uuid.NewString()); !errors.Is(err, domain.ErrOutboxPublish) {
		t.Fatalf("expected publish error for unknown id, got %v", err)
	}
}
