package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Auth     AuthConfig
	Order    OrderConfig
}

type ServerConfig struct {
	Port           int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type OrderConfig struct {
	PageSize         int
	MaxBulkIDs       int
	BulkTxTimeout    time.Duration
	MaxRetryAttempts int
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "orderdesk")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "orderdesk")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("TOKEN_TTL", "12h")
	viper.SetDefault("ORDER_PAGE_SIZE", 10)
	viper.SetDefault("ORDER_MAX_BULK_IDS", 100)
	viper.SetDefault("ORDER_BULK_TX_TIMEOUT", "5s")
	viper.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	tokenTTL, err := time.ParseDuration(viper.GetString("TOKEN_TTL"))
	if err != nil {
		return nil, err
	}

	bulkTxTimeout, err := time.ParseDuration(viper.GetString("ORDER_BULK_TX_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           viper.GetInt("SERVER_PORT"),
			AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
			TokenTTL:  tokenTTL,
		},
		Order: OrderConfig{
			PageSize:         viper.GetInt("ORDER_PAGE_SIZE"),
			MaxBulkIDs:       viper.GetInt("ORDER_MAX_BULK_IDS"),
			BulkTxTimeout:    bulkTxTimeout,
			MaxRetryAttempts: viper.GetInt("ORDER_MAX_RETRY_ATTEMPTS"),
		},
	}

	return cfg, nil
}
