package domain

import "context"

// Service rolls the ledger up into fleet-wide reporting views.
type Service interface {
	// Stats computes the KPI block for period, which is either PeriodAll or a
	// YYYY-MM month.
	Stats(ctx context.Context, period string) (Stats, error)
	// RecentActivity returns at most limit feed entries, newest first.
	RecentActivity(ctx context.Context, limit int) ([]Activity, error)
	// OverdueResidents lists every resident currently classified overdue,
	// highest balance first.
	OverdueResidents(ctx context.Context) ([]OverdueResident, error)
}
