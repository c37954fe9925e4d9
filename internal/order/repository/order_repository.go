package repository

import (
	"context"
	"database/sql"
	"fmt"

	"orderdesk/internal/domain"
	"orderdesk/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, customer_name, customer_email, subtotal, shipping, tax, discount,
	       total, status, payment_status, version, created_at, updated_at`

func scanOrder(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.CustomerName, &order.CustomerEmail,
		&order.Subtotal, &order.Shipping, &order.Tax, &order.Discount, &order.Total,
		&order.Status, &order.PaymentStatus, &order.Version,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns one page of orders, newest first. An empty status means no
// status filtering.
func (r *MySQLOrderRepository) List(ctx context.Context, status domain.Status, limit, offset int) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, string(status), string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) Count(ctx context.Context, status domain.Status) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE (? = '' OR status = ?)`

	var count int
	if err := r.db.QueryRowContext(ctx, query, string(status), string(status)).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}

	return count, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

// FindByIDForUpdate locks the order row for the duration of tx.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ? FOR UPDATE`

	order, err := scanOrder(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order for update: %w", err)
	}

	return order, nil
}

// UpdateStatus applies a status change guarded by the version the caller
// read. Zero affected rows means either the order vanished or another
// operator changed it first.
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status domain.Status, expectedVersion int) error {
	query := `
		UPDATE orders
		SET status = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?
	`

	result, err := tx.ExecContext(ctx, query, string(status), id, expectedVersion)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE id = ?`, id).Scan(&exists)
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
		}
		if err != nil {
			return fmt.Errorf("checking order existence: %w", err)
		}
		return errors.NewConflictError(fmt.Sprintf("order %s was modified concurrently", id))
	}

	return nil
}

// Insert is used by tests and the seeding path; the storefront checkout is
// the production writer.
func (r *MySQLOrderRepository) Insert(ctx context.Context, order domain.Order) error {
	query := `
		INSERT INTO orders (id, customer_name, customer_email, subtotal, shipping, tax,
		                    discount, total, status, payment_status, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.CustomerName, order.CustomerEmail,
		order.Subtotal, order.Shipping, order.Tax, order.Discount, order.Total,
		string(order.Status), string(order.PaymentStatus), order.Version,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}
