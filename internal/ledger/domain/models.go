// Package domain contains the billing ledger entities and the pure
// computations over them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ResidentStatus is the administrative flag, independent of billing status.
type ResidentStatus string

const (
	ResidentStatusActive   ResidentStatus = "active"
	ResidentStatusInactive ResidentStatus = "inactive"
)

// AssignmentStatus marks whether an assignment still blocks its date interval.
type AssignmentStatus string

const (
	AssignmentStatusActive    AssignmentStatus = "active"
	AssignmentStatusCompleted AssignmentStatus = "completed"
)

// PaymentStatus is the review state of a payment. Rejected payments are
// deleted outright, so only pending and verified rows are ever stored.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"
)

// PaymentMode identifies how the money arrived.
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeUPI          PaymentMode = "upi"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
	PaymentModeOnline       PaymentMode = "online"
)

// ValidPaymentMode reports whether mode is one of the supported modes.
func ValidPaymentMode(mode PaymentMode) bool {
	switch mode {
	case PaymentModeCash, PaymentModeUPI, PaymentModeBankTransfer, PaymentModeOnline:
		return true
	}
	return false
}

// Resident is a hostel resident enrolled with the mess.
type Resident struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"type:text;not null" json:"name"`
	Phone          string         `gorm:"type:text;not null" json:"phone"`
	Room           string         `gorm:"type:text;not null" json:"room"`
	Status         ResidentStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	LastReminderAt *time.Time     `json:"last_reminder_at,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Resident) TableName() string { return "residents" }

// Plan is a meal plan with a monthly price in whole rupees. Edits never touch
// historical charges because the charge is snapshotted on the assignment.
type Plan struct {
	ID           snowflake.ID                `gorm:"primaryKey" json:"id"`
	Name         string                      `gorm:"type:text;not null" json:"name"`
	Meals        datatypes.JSONSlice[string] `gorm:"not null" json:"meals"`
	MonthlyPrice int64                       `gorm:"not null" json:"monthly_price"`
	CreatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Plan) TableName() string { return "plans" }

// Assignment binds a resident to a plan for a closed date interval
// [StartDate, EndDate] and carries the charge computed at creation time.
type Assignment struct {
	ID         snowflake.ID     `gorm:"primaryKey" json:"id"`
	ResidentID snowflake.ID     `gorm:"not null;index" json:"resident_id"`
	PlanID     snowflake.ID     `gorm:"not null;index" json:"plan_id"`
	StartDate  time.Time        `gorm:"not null" json:"start_date"`
	EndDate    time.Time        `gorm:"not null" json:"end_date"`
	Charge     int64            `gorm:"not null" json:"charge"`
	Status     AssignmentStatus `gorm:"type:text;not null" json:"status"`
	CreatedAt  time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Assignment) TableName() string { return "assignments" }

// Covers reports whether the assignment interval contains the given date.
func (a Assignment) Covers(ref time.Time) bool {
	day := DateOf(ref)
	return !day.Before(DateOf(a.StartDate)) && !day.After(DateOf(a.EndDate))
}

// Payment is a credit against a resident's balance. Only verified payments
// count toward balance reduction and collection totals.
type Payment struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	ResidentID    snowflake.ID  `gorm:"not null;index" json:"resident_id"`
	Amount        int64         `gorm:"not null" json:"amount"`
	PaidAt        time.Time     `gorm:"not null" json:"paid_at"`
	Mode          PaymentMode   `gorm:"type:text;not null" json:"mode"`
	TransactionID *string       `gorm:"type:text;uniqueIndex:ux_payments_transaction_id" json:"transaction_id,omitempty"`
	Note          *string       `gorm:"type:text" json:"note,omitempty"`
	Status        PaymentStatus `gorm:"type:text;not null" json:"status"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }
