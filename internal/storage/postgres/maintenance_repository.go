package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type maintenanceRepository struct {
	db *sql.DB
}

// NewMaintenanceRepository создаёт PostgreSQL-реализацию MaintenanceRepository.
func NewMaintenanceRepository(store *Store) domain.MaintenanceRepository {
	return &maintenanceRepository{db: store.DB()}
}

// WipeAll удаляет заказы, счета и товары одной транзакцией и возвращает
// счётчики удалённого. Любая ошибка откатывает всё: частичной очистки
// не бывает.
func (r *maintenanceRepository) WipeAll() (domain.WipeResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WipeResult{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var result domain.WipeResult

	if result.OrdersDeleted, err = deleteAll(ctx, tx, "orders"); err != nil {
		return domain.WipeResult{}, err
	}
	if result.InvoicesDeleted, err = deleteAll(ctx, tx, "invoices"); err != nil {
		return domain.WipeResult{}, err
	}
	if result.ProductsDeleted, err = deleteAll(ctx, tx, "products"); err != nil {
		return domain.WipeResult{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.WipeResult{}, fmt.Errorf("commit wipe: %w", err)
	}

	return result, nil
}

func deleteAll(ctx context.Context, tx *sql.Tx, table string) (int, error) {
	res, err := tx.ExecContext(ctx, "DELETE FROM "+table)
	if err != nil {
		return 0, fmt.Errorf("wipe %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for %s: %w", table, err)
	}
	return int(affected), nil
}

var _ domain.MaintenanceRepository = (*maintenanceRepository)(nil)
