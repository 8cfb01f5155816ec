package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/storage/memory"
	"github.com/vladislavdragonenkov/ims/internal/storage/postgres"
)

// Dependencies содержит хранилища приложения.
type Dependencies struct {
	Products    domain.ProductRepository
	Orders      domain.OrderRepository
	Invoices    domain.InvoiceRepository
	Maintenance domain.MaintenanceRepository
	Outbox      domain.OutboxRepository

	// PG не nil, когда зависимости собраны поверх PostgreSQL.
	PG     *postgres.Store
	Logger *log.Entry
}

// NewDependencies собирает хранилища: PostgreSQL при заданном DSN,
// иначе in-memory для локальной разработки.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if cfg.PostgresDSN == "" {
		logger.Info("postgres DSN is not set, using in-memory storage")
		store := memory.NewStore()
		return &Dependencies{
			Products:    store.Products(),
			Orders:      store.Orders(),
			Invoices:    store.Invoices(),
			Maintenance: store.Maintenance(),
			Outbox:      memory.NewOutboxRepository(),
			Logger:      logger,
		}, nil
	}

	pg, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("postgres storage initialized")
	return &Dependencies{
		Products:    postgres.NewProductRepository(pg),
		Orders:      postgres.NewOrderRepository(pg),
		Invoices:    postgres.NewInvoiceRepository(pg),
		Maintenance: postgres.NewMaintenanceRepository(pg),
		Outbox:      postgres.NewOutboxRepository(pg),
		PG:          pg,
		Logger:      logger,
	}, nil
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() {
	if d == nil || d.PG == nil {
		return
	}
	if err := d.PG.Close(); err != nil {
		d.Logger.WithError(err).Warn("failed to close postgres store")
	}
}
