package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type invoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository создаёт PostgreSQL-реализацию InvoiceRepository.
func NewInvoiceRepository(store *Store) domain.InvoiceRepository {
	return &invoiceRepository{db: store.DB()}
}

// Issue атомарно сохраняет счёт и переводит заказ accepted -> paid.
// Условный UPDATE не пропускает заказ в другом статусе, поэтому второй
// счёт по тому же заказу выписать нельзя.
func (r *invoiceRepository) Issue(invoice domain.Invoice) error {
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
		UPDATE orders
		SET status = $1,
		    version = version + 1,
		    updated_at = $2
		WHERE id = $3
		  AND status = $4
	`,
		string(domain.OrderStatusPaid), invoice.IssuedAt,
		invoice.OrderID, string(domain.OrderStatusAccepted),
	)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var id string
		scanErr := tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1`, invoice.OrderID).Scan(&id)
		if errors.Is(scanErr, sql.ErrNoRows) {
			err = domain.ErrOrderNotFound
			return err
		}
		if scanErr != nil {
			err = fmt.Errorf("check order exists: %w", scanErr)
			return err
		}
		err = domain.ErrInvoiceOrderNotAccepted
		return err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO invoices (id, order_id, product_name, product_price, order_placed_at, issued_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		invoice.ID, invoice.OrderID, invoice.ProductName,
		invoice.ProductPrice, invoice.OrderPlacedAt, invoice.IssuedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvoiceOrderNotAccepted
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit issue invoice: %w", err)
	}

	return nil
}

func (r *invoiceRepository) List() ([]domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_name, product_price, order_placed_at, issued_at
		FROM invoices
		ORDER BY issued_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0)
	for rows.Next() {
		var invoice domain.Invoice
		if err := rows.Scan(
			&invoice.ID, &invoice.OrderID, &invoice.ProductName,
			&invoice.ProductPrice, &invoice.OrderPlacedAt, &invoice.IssuedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		invoice.OrderPlacedAt = invoice.OrderPlacedAt.UTC()
		invoice.IssuedAt = invoice.IssuedAt.UTC()
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice rows: %w", err)
	}

	return invoices, nil
}

var _ domain.InvoiceRepository = (*invoiceRepository)(nil)
