package repository

import (
	"context"
	"database/sql"
	"fmt"

	"orderdesk/internal/domain"
)

type MySQLLineItemRepository struct {
	db *sql.DB
}

func NewMySQLLineItemRepository(db *sql.DB) *MySQLLineItemRepository {
	return &MySQLLineItemRepository{db: db}
}

func (r *MySQLLineItemRepository) ListByOrderID(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	query := `SELECT id, order_id, name, quantity, unit_price FROM order_items WHERE order_id = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing order items: %w", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order items: %w", err)
	}

	return items, nil
}

func (r *MySQLLineItemRepository) Insert(ctx context.Context, item domain.LineItem) (uint, error) {
	query := `INSERT INTO order_items (order_id, name, quantity, unit_price) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, item.OrderID, item.Name, item.Quantity, item.UnitPrice)
	if err != nil {
		return 0, fmt.Errorf("inserting order item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}
