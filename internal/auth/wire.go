package auth

import (
	"database/sql"

	"orderdesk/internal/config"

	"go.uber.org/zap"
)

type Module struct {
	Controller *Controller
	Tokens     *TokenService
}

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Module {
	users := NewMySQLAdminUserRepository(db)
	tokens := NewTokenService(users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return &Module{
		Controller: NewController(tokens, logger),
		Tokens:     tokens,
	}
}
