package auth

import (
	"context"
	"database/sql"
	"fmt"

	"orderdesk/internal/domain"
	"orderdesk/internal/errors"
)

type MySQLAdminUserRepository struct {
	db *sql.DB
}

func NewMySQLAdminUserRepository(db *sql.DB) *MySQLAdminUserRepository {
	return &MySQLAdminUserRepository{db: db}
}

func (r *MySQLAdminUserRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	query := `SELECT id, username, password_hash, created_at FROM admin_users WHERE username = ?`

	var user domain.AdminUser
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("admin user %s not found", username))
	}
	if err != nil {
		return nil, fmt.Errorf("querying admin user by username: %w", err)
	}

	return &user, nil
}

func (r *MySQLAdminUserRepository) Insert(ctx context.Context, username string, passwordHash []byte) error {
	query := `INSERT INTO admin_users (username, password_hash) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, username, passwordHash); err != nil {
		return fmt.Errorf("inserting admin user: %w", err)
	}

	return nil
}
