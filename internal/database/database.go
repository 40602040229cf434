package database

import (
	"context"
	"fmt"

	"syllabus-buddy/internal/config"
	"syllabus-buddy/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver
	"go.uber.org/zap"
)

// NewSQLXDB connects to the configured database and verifies the connection.
func NewSQLXDB(ctx context.Context, cfg config.SQLConfig) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "oracle"
	}
	db, err := sqlx.ConnectContext(ctx, driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	logger.Get().Info("Connected to database", zap.String("driver", driver))
	return db, nil
}
