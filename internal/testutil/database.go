package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the local test database. Expects a MySQL instance on
// localhost:3306 with a database named 'orderdesk_test'; tests that need it
// are skipped when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/orderdesk_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"order_items", "orders", "admin_users"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the tables the integration tests need.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createOrdersTable := `
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

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS order_items (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		order_id CHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		unit_price DECIMAL(10,2) NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
		INDEX idx_order (order_id)
	)`

	createAdminUsersTable := `
	CREATE TABLE IF NOT EXISTS admin_users (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARBINARY(100) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"orders", createOrdersTable},
		{"order_items", createOrderItemsTable},
		{"admin_users", createAdminUsersTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
