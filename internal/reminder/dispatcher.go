// Package reminder nudges overdue residents to clear their dues.
package reminder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/hosteldesk/messpro/internal/observability/logger"
	"github.com/hosteldesk/messpro/internal/observability/tracing"
)

// Reminder is the payload handed to a dispatcher for one overdue resident.
type Reminder struct {
	ResidentID string `json:"resident_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Balance    int64  `json:"balance"`
}

// Dispatcher delivers a reminder through some messaging channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, r Reminder) error
}

// Message renders the reminder text sent to the resident.
func Message(r Reminder) string {
	return fmt.Sprintf(
		"Hello %s, this is a gentle reminder from the Mess Admin. Your meal plan has expired and you have a pending due of Rs %d. Please pay at the earliest to resume services.",
		r.Name, r.Balance,
	)
}

// WhatsAppLink builds a wa.me deep link carrying the reminder message,
// assuming Indian numbers.
func WhatsAppLink(r Reminder) string {
	return "https://wa.me/91" + r.Phone + "?text=" + url.QueryEscape(Message(r))
}

// LogDispatcher writes reminders to the log. Used when no webhook is
// configured, so the workflow (including the last-reminder stamp) still runs
// end to end.
type LogDispatcher struct {
	log *zap.Logger
}

func NewLogDispatcher(log *zap.Logger) *LogDispatcher {
	return &LogDispatcher{log: log.Named("reminder.dispatcher")}
}

func (d *LogDispatcher) Dispatch(_ context.Context, r Reminder) error {
	d.log.Info("overdue reminder",
		zap.String("resident_id", r.ResidentID),
		zap.String("phone", logger.MaskPhone(r.Phone)),
		zap.Int64("balance", r.Balance),
	)
	return nil
}

// WebhookDispatcher POSTs reminders as JSON to a messaging integration.
type WebhookDispatcher struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewWebhookDispatcher(webhookURL string, log *zap.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{
		url:    webhookURL,
		client: tracing.WrapHTTPClient(&http.Client{}),
		log:    log.Named("reminder.dispatcher"),
	}
}

func (d *WebhookDispatcher) Dispatch(ctx context.Context, r Reminder) error {
	body, err := json.Marshal(struct {
		Reminder
		Message string `json:"message"`
		Link    string `json:"link"`
	}{Reminder: r, Message: Message(r), Link: WhatsAppLink(r)})
	if err != nil {
		return err
	}

	d.log.Debug("dispatching reminder webhook", zap.Any("payload", logger.MaskJSON(map[string]any{
		"resident_id": r.ResidentID,
		"phone":       r.Phone,
		"balance":     r.Balance,
	})))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("reminder webhook returned status %d", resp.StatusCode)
	}
	return nil
}
