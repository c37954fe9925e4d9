package domain

import "time"

type AdminUser struct {
	ID           uint
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}
