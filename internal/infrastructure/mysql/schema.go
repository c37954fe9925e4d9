package mysql

import (
	"database/sql"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS orders (
	id CHAR(36) NOT NULL PRIMARY KEY,
	customer_name VARCHAR(150),
	customer_email VARCHAR(150),
	subtotal DECIMAL(10,2) NOT NULL DEFAULT 0.00,
	shipping DECIMAL(10,2) NOT NULL DEFAULT 0.00,
	tax DECIMAL(10,2) NOT NULL DEFAULT 0.00,
	discount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
	total DECIMAL(10,2) NOT NULL DEFAULT 0.00,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
	version INT NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	INDEX idx_status (status),
	INDEX idx_created (created_at)
)`

const lineItemsSQL = `
CREATE TABLE IF NOT EXISTS order_items (
	id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	order_id CHAR(36) NOT NULL,
	name VARCHAR(255) NOT NULL,
	quantity INT NOT NULL DEFAULT 1,
	unit_price DECIMAL(10,2) NOT NULL,
	FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
	INDEX idx_order (order_id)
)`

const adminUsersSQL = `
CREATE TABLE IF NOT EXISTS admin_users (
	id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	username VARCHAR(100) NOT NULL UNIQUE,
	password_hash VARBINARY(100) NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// InitSchema applies the schema at boot so a fresh database is usable
// without a separate migration step.
func InitSchema(db *sql.DB) error {
	for _, query := range []string{schemaSQL, lineItemsSQL, adminUsersSQL} {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("initializing schema: %w", err)
		}
	}
	return nil
}
