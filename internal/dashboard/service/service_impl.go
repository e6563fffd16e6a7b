// Package service implements the dashboard aggregator over ledger snapshots.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hosteldesk/messpro/internal/clock"
	dashboarddomain "github.com/hosteldesk/messpro/internal/dashboard/domain"
	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
	"github.com/hosteldesk/messpro/internal/observability/metrics"
)

const defaultActivityLimit = 10

type Params struct {
	fx.In

	Ledger ledgerdomain.Service
	Log    *zap.Logger
	Clock  clock.Clock
}

type Service struct {
	ledger ledgerdomain.Service
	log    *zap.Logger
	clock  clock.Clock
}

func NewService(p Params) dashboarddomain.Service {
	return &Service{
		ledger: p.Ledger,
		log:    p.Log.Named("dashboard.service"),
		clock:  p.Clock,
	}
}

// Stats computes every figure from one snapshot so the block is internally
// consistent. Receivables is a period-scoped net and can go negative when
// collections from other periods pay down this period's billing; the overdue
// total is deliberately never period-scoped.
func (s *Service) Stats(ctx context.Context, period string) (dashboarddomain.Stats, error) {
	if err := validatePeriod(period); err != nil {
		return dashboarddomain.Stats{}, err
	}

	snapshot, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return dashboarddomain.Stats{}, err
	}

	stats := dashboarddomain.Stats{Period: period}
	for _, p := range snapshot.Payments {
		if p.Status == ledgerdomain.PaymentStatusVerified && inPeriod(p.PaidAt, period) {
			stats.Collections += p.Amount
		}
	}
	// Billing lands in the month the plan starts.
	for _, a := range snapshot.Assignments {
		if inPeriod(a.StartDate, period) {
			stats.Billings += a.Charge
		}
	}
	stats.Receivables = stats.Billings - stats.Collections

	now := s.clock.Now()
	for _, r := range snapshot.Residents {
		if r.Status == ledgerdomain.ResidentStatusActive {
			stats.ActiveResidentCount++
		}
		if status := snapshot.ClassifyResident(r.ID, now); status.IsOverdue {
			stats.OverdueTotal += snapshot.BalanceOf(r.ID)
			stats.OverdueResidents++
		}
	}
	metrics.Ledger().SetOverduePosition(stats.OverdueResidents, stats.OverdueTotal)

	return stats, nil
}

// RecentActivity merges payment-received events (verified payments only) with
// resident registrations, newest first. The sort is stable so same-instant
// entries keep their input order, and the feed is recomputed fresh per call.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]dashboarddomain.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	snapshot, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	activities := make([]dashboarddomain.Activity, 0, len(snapshot.Payments)+len(snapshot.Residents))
	for _, p := range snapshot.Payments {
		if p.Status != ledgerdomain.PaymentStatusVerified {
			continue
		}
		payer := "Unknown"
		if resident := snapshot.ResidentByID(p.ResidentID); resident != nil {
			payer = resident.Name
		}
		amount := p.Amount
		activities = append(activities, dashboarddomain.Activity{
			Type:        dashboarddomain.ActivityTypePayment,
			Title:       "Payment Received",
			Description: fmt.Sprintf("%s paid via %s", payer, p.Mode),
			Date:        p.PaidAt,
			Amount:      &amount,
		})
	}
	for _, r := range snapshot.Residents {
		activities = append(activities, dashboarddomain.Activity{
			Type:        dashboarddomain.ActivityTypeRegistration,
			Title:       "New Resident",
			Description: fmt.Sprintf("%s added to Room %s", r.Name, r.Room),
			Date:        r.CreatedAt,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Date.After(activities[j].Date)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

// OverdueResidents feeds the reminder workflow, highest balance first.
func (s *Service) OverdueResidents(ctx context.Context) ([]dashboarddomain.OverdueResident, error) {
	snapshot, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var overdue []dashboarddomain.OverdueResident
	for _, r := range snapshot.Residents {
		status := snapshot.ClassifyResident(r.ID, now)
		if !status.IsOverdue {
			continue
		}
		overdue = append(overdue, dashboarddomain.OverdueResident{
			ResidentID:     r.ID.String(),
			Name:           r.Name,
			Phone:          r.Phone,
			Balance:        snapshot.BalanceOf(r.ID),
			LastReminderAt: r.LastReminderAt,
		})
	}
	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].Balance > overdue[j].Balance
	})
	return overdue, nil
}

func validatePeriod(period string) error {
	if period == dashboarddomain.PeriodAll {
		return nil
	}
	if _, err := time.Parse("2006-01", period); err != nil {
		return ledgerdomain.NewValidationError("period", "must be 'all' or YYYY-MM")
	}
	return nil
}

func inPeriod(t time.Time, period string) bool {
	if period == dashboarddomain.PeriodAll {
		return true
	}
	return t.Format("2006-01") == period
}
