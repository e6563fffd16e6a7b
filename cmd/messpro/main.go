package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hosteldesk/messpro/internal/clock"
	"github.com/hosteldesk/messpro/internal/config"
	"github.com/hosteldesk/messpro/internal/dashboard"
	"github.com/hosteldesk/messpro/internal/ledger"
	"github.com/hosteldesk/messpro/internal/migration"
	"github.com/hosteldesk/messpro/internal/observability/logger"
	"github.com/hosteldesk/messpro/internal/observability/metrics"
	"github.com/hosteldesk/messpro/internal/observability/tracing"
	"github.com/hosteldesk/messpro/internal/reminder"
	"github.com/hosteldesk/messpro/internal/seed"
	"github.com/hosteldesk/messpro/internal/server"
	"github.com/hosteldesk/messpro/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(func() (*snowflake.Node, error) {
			return snowflake.NewNode(1)
		}),
		clock.Module,
		db.Module,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if cfg.SeedDemoData {
				return seed.EnsureDemoData(conn, node)
			}
			return nil
		}),
		fx.Invoke(func(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) error {
			metrics.LedgerWithConfig(metrics.Config{
				ServiceName: cfg.ServiceName,
				Environment: cfg.Environment,
			})
			_, err := tracing.NewProvider(lc, tracing.Config{
				Enabled:          cfg.Tracing.Enabled,
				ServiceName:      cfg.ServiceName,
				ServiceVersion:   cfg.ServiceVersion,
				Environment:      cfg.Environment,
				ExporterEndpoint: cfg.Tracing.Endpoint,
				ExporterProtocol: cfg.Tracing.Protocol,
				SamplingRatio:    cfg.Tracing.SamplingRatio,
			}, log)
			return err
		}),
		ledger.Module,
		dashboard.Module,
		reminder.Module,
		server.Module,
	)
	app.Run()
}
