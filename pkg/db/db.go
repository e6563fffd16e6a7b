// Package db opens the gorm database handle for the service.
package db

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hosteldesk/messpro/internal/config"
)

var Module = fx.Module("db",
	fx.Provide(Open),
)

// Open connects to the SQLite database named by the configured DSN.
// TranslateError is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey, which the ledger maps to its duplicate error.
func Open(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a small pool avoids lock contention.
	sqlDB.SetMaxOpenConns(4)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing database")
			return sqlDB.Close()
		},
	})
	return conn, nil
}
