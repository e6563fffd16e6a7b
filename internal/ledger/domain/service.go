package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// CreateResidentRequest registers a new resident.
type CreateResidentRequest struct {
	Name  string
	Phone string
	Room  string
}

// CreatePlanRequest creates a meal plan.
type CreatePlanRequest struct {
	Name         string
	Meals        []string
	MonthlyPrice int64
}

// UpdatePlanRequest edits an existing plan. Historical charges are untouched.
type UpdatePlanRequest struct {
	ID           snowflake.ID
	Name         string
	Meals        []string
	MonthlyPrice int64
}

// AssignPlanRequest binds a resident to a plan for a date interval.
type AssignPlanRequest struct {
	ResidentID snowflake.ID
	PlanID     snowflake.ID
	StartDate  time.Time
	EndDate    time.Time
}

// RecordPaymentRequest records a credit. Status defaults to verified when
// empty (administrative entry); self-service callers pass pending.
type RecordPaymentRequest struct {
	ResidentID    snowflake.ID
	Amount        int64
	PaidAt        time.Time
	Mode          PaymentMode
	TransactionID *string
	Note          *string
	Status        PaymentStatus
}

// Service is the ledger: the five mutating operations from the billing core,
// entity management around them, and snapshot-consistent reads.
type Service interface {
	// Snapshot returns the current collections, possibly from a short-lived
	// cache. Reload forces a fresh fetch from the repository.
	Snapshot(ctx context.Context) (*Snapshot, error)
	Reload(ctx context.Context) (*Snapshot, error)

	CreateResident(ctx context.Context, req CreateResidentRequest) (*Resident, error)
	DeleteResident(ctx context.Context, id snowflake.ID) error

	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	UpdatePlan(ctx context.Context, req UpdatePlanRequest) (*Plan, error)

	AssignPlan(ctx context.Context, req AssignPlanRequest) (*Assignment, error)

	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*Payment, error)
	VerifyPayment(ctx context.Context, id snowflake.ID) error
	RejectPayment(ctx context.Context, id snowflake.ID) error

	UpdateLastReminder(ctx context.Context, residentID snowflake.ID, at time.Time) error
}
