// Package domain defines the reporting views derived from the ledger.
package domain

import "time"

// PeriodAll selects every record regardless of month.
const PeriodAll = "all"

// Stats is the KPI block for the admin dashboard. Collections, billings and
// receivables honor the period filter; the overdue figures and the resident
// count are always fleet-wide and current.
type Stats struct {
	Period              string `json:"period"`
	Collections         int64  `json:"collections"`
	Billings            int64  `json:"billings"`
	Receivables         int64  `json:"receivables"`
	OverdueTotal        int64  `json:"overdue_total"`
	OverdueResidents    int    `json:"overdue_residents"`
	ActiveResidentCount int    `json:"active_resident_count"`
}

// ActivityType tags a feed entry.
type ActivityType string

const (
	ActivityTypePayment      ActivityType = "payment"
	ActivityTypeRegistration ActivityType = "registration"
)

// Activity is one entry of the merged, time-sorted feed.
type Activity struct {
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Date        time.Time    `json:"date"`
	Amount      *int64       `json:"amount,omitempty"`
}

// OverdueResident is the reminder dispatcher's view of an overdue account.
type OverdueResident struct {
	ResidentID     string     `json:"resident_id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Balance        int64      `json:"balance"`
	LastReminderAt *time.Time `json:"last_reminder_at,omitempty"`
}
