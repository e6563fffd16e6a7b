package reminder

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/hosteldesk/messpro/internal/clock"
	dashboarddomain "github.com/hosteldesk/messpro/internal/dashboard/domain"
	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
	"github.com/hosteldesk/messpro/internal/observability/metrics"
)

// Worker periodically scans for overdue residents and sends each one a
// reminder, honoring a per-resident cooldown.
type Worker struct {
	cfg        Config
	dashboard  dashboarddomain.Service
	ledger     ledgerdomain.Service
	dispatcher Dispatcher
	clock      clock.Clock
	log        *zap.Logger
}

func NewWorker(cfg Config, dashboard dashboarddomain.Service, ledger ledgerdomain.Service, dispatcher Dispatcher, clk clock.Clock, log *zap.Logger) *Worker {
	return &Worker{
		cfg:        cfg.withDefaults(),
		dashboard:  dashboard,
		ledger:     ledger,
		dispatcher: dispatcher,
		clock:      clk,
		log:        log.Named("reminder.worker"),
	}
}

// RunForever polls until ctx is cancelled. Errors from a sweep are logged and
// the next tick retries.
func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.log.Error("reminder sweep failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs a single sweep and returns the number of reminders sent.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	overdue, err := w.dashboard.OverdueResidents(ctx)
	if err != nil {
		return 0, err
	}

	now := w.clock.Now()
	sent := 0
	for _, r := range overdue {
		if r.LastReminderAt != nil && now.Sub(*r.LastReminderAt) < w.cfg.Cooldown {
			metrics.Ledger().IncReminderDispatched("skipped")
			continue
		}

		residentID, err := snowflake.ParseString(r.ResidentID)
		if err != nil {
			w.log.Error("bad resident id in overdue list", zap.String("resident_id", r.ResidentID), zap.Error(err))
			continue
		}

		if err := w.dispatcher.Dispatch(ctx, Reminder{
			ResidentID: r.ResidentID,
			Name:       r.Name,
			Phone:      r.Phone,
			Balance:    r.Balance,
		}); err != nil {
			metrics.Ledger().IncReminderDispatched("failed")
			w.log.Error("reminder dispatch failed", zap.String("resident_id", r.ResidentID), zap.Error(err))
			continue
		}

		if err := w.ledger.UpdateLastReminder(ctx, residentID, now); err != nil {
			w.log.Error("failed to stamp last reminder", zap.String("resident_id", r.ResidentID), zap.Error(err))
		}
		metrics.Ledger().IncReminderDispatched("sent")
		sent++
	}

	if sent > 0 {
		w.log.Info("reminder sweep complete", zap.Int("sent", sent), zap.Int("overdue", len(overdue)))
	}
	return sent, nil
}
