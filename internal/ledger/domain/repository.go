package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Repository is the storage contract for the ledger. LoadSnapshot must fetch
// all four collections in one consistent read; each mutation must be a single
// atomic write. The unique index on payments.transaction_id is the source of
// truth for duplicate detection; the service's pre-check is a fast path only.
type Repository interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)

	InsertResident(ctx context.Context, r *Resident) error
	// DeleteResident removes the resident and their assignments in one
	// transaction. Payments are retained, addressable by the orphaned id.
	DeleteResident(ctx context.Context, id snowflake.ID) error

	InsertPlan(ctx context.Context, p *Plan) error
	UpdatePlan(ctx context.Context, p *Plan) error

	InsertAssignment(ctx context.Context, a *Assignment) error

	InsertPayment(ctx context.Context, p *Payment) error
	FindPaymentByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	UpdatePaymentStatus(ctx context.Context, id snowflake.ID, status PaymentStatus) error
	DeletePayment(ctx context.Context, id snowflake.ID) error

	UpdateLastReminder(ctx context.Context, residentID snowflake.ID, at time.Time) error
}
