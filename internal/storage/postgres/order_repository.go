package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Place атомарно вставляет заказ и переводит товар available -> ordered.
// Условный UPDATE выигрывает ровно у одного из конкурирующих вызовов;
// проигравшие различают "товара нет" и "товар уже выкуплен".
func (r *orderRepository) Place(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET status = $1,
		    version = version + 1,
		    updated_at = $2
		WHERE id = $3
		  AND status = $4
	`,
		string(domain.ProductStatusOrdered), order.PlacedAt,
		order.ProductID, string(domain.ProductStatusAvailable),
	)
	if err != nil {
		return fmt.Errorf("mark product ordered: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var id string
		scanErr := tx.QueryRowContext(ctx, `SELECT id FROM products WHERE id = $1`, order.ProductID).Scan(&id)
		if errors.Is(scanErr, sql.ErrNoRows) {
			err = domain.ErrProductNotFound
			return err
		}
		if scanErr != nil {
			err = fmt.Errorf("check product exists: %w", scanErr)
			return err
		}
		err = domain.ErrProductUnavailable
		return err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, product_id, price, placed_at, status, discount, version, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		order.ID, order.ProductID, order.Price, order.PlacedAt,
		string(order.Status), string(order.Discount), order.Version, order.PlacedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit place order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	order, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT id, product_id, price, placed_at, status, discount, version, updated_at
		FROM orders
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) List() ([]domain.Order, error) {
	return r.query(`
		SELECT id, product_id, price, placed_at, status, discount, version, updated_at
		FROM orders
		ORDER BY placed_at DESC, id DESC
	`)
}

// ListPlacedBetween возвращает заказы строго внутри интервала: заказы
// ровно на границах не попадают в выборку.
func (r *orderRepository) ListPlacedBetween(from, to time.Time) ([]domain.Order, error) {
	return r.query(`
		SELECT id, product_id, price, placed_at, status, discount, version, updated_at
		FROM orders
		WHERE placed_at > $1
		  AND placed_at < $2
		ORDER BY placed_at DESC, id DESC
	`, from, to)
}

func (r *orderRepository) Save(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    discount = $2,
		    price = $3,
		    version = version + 1,
		    updated_at = $4
		WHERE id = $5
		  AND version = $6
	`,
		string(order.Status), string(order.Discount), order.Price,
		order.UpdatedAt, order.ID, order.Version,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.exists(ctx, order.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrOrderNotFound
		}
		return domain.ErrVersionConflict
	}

	return nil
}

func (r *orderRepository) query(query string, args ...any) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) exists(ctx context.Context, id string) (bool, error) {
	var found string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1`, id).Scan(&found)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check order exists: %w", err)
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order    domain.Order
		status   string
		discount string
	)
	if err := row.Scan(
		&order.ID, &order.ProductID, &order.Price, &order.PlacedAt,
		&status, &discount, &order.Version, &order.UpdatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	order.Discount = domain.OrderDiscount(discount)
	order.PlacedAt = order.PlacedAt.UTC()
	order.UpdatedAt = order.UpdatedAt.UTC()
	return order, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
