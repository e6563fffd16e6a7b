// Package repository implements the ledger storage contract on gorm.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
)

type Repository struct {
	db *gorm.DB
}

// Provide constructs the gorm-backed ledger repository.
func Provide(db *gorm.DB) ledgerdomain.Repository {
	return &Repository{db: db}
}

// LoadSnapshot fetches all four collections inside one transaction so every
// derived figure downstream is computed from a consistent view.
func (r *Repository) LoadSnapshot(ctx context.Context) (*ledgerdomain.Snapshot, error) {
	snapshot := &ledgerdomain.Snapshot{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("created_at DESC").Find(&snapshot.Residents).Error; err != nil {
			return err
		}
		if err := tx.Order("created_at ASC").Find(&snapshot.Plans).Error; err != nil {
			return err
		}
		if err := tx.Order("start_date ASC").Find(&snapshot.Assignments).Error; err != nil {
			return err
		}
		return tx.Order("paid_at DESC").Find(&snapshot.Payments).Error
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *Repository) InsertResident(ctx context.Context, resident *ledgerdomain.Resident) error {
	return r.db.WithContext(ctx).Create(resident).Error
}

// DeleteResident removes the resident row and their assignments atomically.
// Payment rows are kept so history stays addressable by the orphaned id.
func (r *Repository) DeleteResident(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM assignments WHERE resident_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM residents WHERE id = ?`, id).Error
	})
}

func (r *Repository) InsertPlan(ctx context.Context, plan *ledgerdomain.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *Repository) UpdatePlan(ctx context.Context, plan *ledgerdomain.Plan) error {
	return r.db.WithContext(ctx).
		Model(&ledgerdomain.Plan{}).
		Where("id = ?", plan.ID).
		Updates(map[string]any{
			"name":          plan.Name,
			"meals":         plan.Meals,
			"monthly_price": plan.MonthlyPrice,
			"updated_at":    plan.UpdatedAt,
		}).Error
}

func (r *Repository) InsertAssignment(ctx context.Context, assignment *ledgerdomain.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *Repository) InsertPayment(ctx context.Context, payment *ledgerdomain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *Repository) FindPaymentByTransactionID(ctx context.Context, transactionID string) (*ledgerdomain.Payment, error) {
	var payment ledgerdomain.Payment
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *Repository) UpdatePaymentStatus(ctx context.Context, id snowflake.ID, status ledgerdomain.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Exec(`UPDATE payments SET status = ? WHERE id = ?`, status, id).Error
}

func (r *Repository) DeletePayment(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).
		Exec(`DELETE FROM payments WHERE id = ?`, id).Error
}

func (r *Repository) UpdateLastReminder(ctx context.Context, residentID snowflake.ID, at time.Time) error {
	return r.db.WithContext(ctx).
		Exec(`UPDATE residents SET last_reminder_at = ? WHERE id = ?`, at, residentID).Error
}
