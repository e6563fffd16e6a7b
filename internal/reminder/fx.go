package reminder

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hosteldesk/messpro/internal/clock"
	"github.com/hosteldesk/messpro/internal/config"
	dashboarddomain "github.com/hosteldesk/messpro/internal/dashboard/domain"
	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
)

var Module = fx.Module("reminder.worker",
	fx.Provide(provideDispatcher),
	fx.Provide(provideWorker),
	fx.Invoke(registerWorker),
)

func provideDispatcher(cfg config.Config, log *zap.Logger) Dispatcher {
	if cfg.Reminder.WebhookURL != "" {
		return NewWebhookDispatcher(cfg.Reminder.WebhookURL, log)
	}
	return NewLogDispatcher(log)
}

func provideWorker(cfg config.Config, dashboard dashboarddomain.Service, ledger ledgerdomain.Service, dispatcher Dispatcher, clk clock.Clock, log *zap.Logger) *Worker {
	return NewWorker(Config{
		PollInterval: cfg.Reminder.PollInterval,
		Cooldown:     cfg.Reminder.Cooldown,
	}, dashboard, ledger, dispatcher, clk, log)
}

func registerWorker(lc fx.Lifecycle, cfg config.Config, w *Worker, log *zap.Logger) {
	if !cfg.Reminder.Enabled {
		log.Named("reminder.worker").Info("reminder worker disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go w.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
