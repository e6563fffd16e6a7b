// Package service implements the ledger's mutating operations and
// snapshot-consistent reads.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hosteldesk/messpro/internal/cache"
	"github.com/hosteldesk/messpro/internal/clock"
	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
	"github.com/hosteldesk/messpro/internal/observability/logger"
	"github.com/hosteldesk/messpro/internal/observability/metrics"
)

const (
	snapshotCacheKey = "current"
	snapshotTTL      = 5 * time.Second
)

type Params struct {
	fx.In

	Repo  ledgerdomain.Repository
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	repo  ledgerdomain.Repository
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	snapshots cache.Cache[string, *ledgerdomain.Snapshot]
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		repo:      p.Repo,
		log:       p.Log.Named("ledger.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		snapshots: cache.NewTTLCache[string, *ledgerdomain.Snapshot](),
	}
}

// Snapshot returns the current collections, serving a short-lived cached copy
// when one exists. Mutations invalidate the cache, and Reload bypasses it for
// out-of-band changes (another admin session writing to the same database).
func (s *Service) Snapshot(ctx context.Context) (*ledgerdomain.Snapshot, error) {
	if snapshot, ok := s.snapshots.Get(snapshotCacheKey); ok {
		metrics.Ledger().IncSnapshotLoad("cache")
		return snapshot, nil
	}
	return s.Reload(ctx)
}

// Reload forces a fresh repository fetch and repopulates the cache.
func (s *Service) Reload(ctx context.Context) (*ledgerdomain.Snapshot, error) {
	snapshot, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	metrics.Ledger().IncSnapshotLoad("repository")
	s.snapshots.Set(snapshotCacheKey, snapshot, snapshotTTL)
	return snapshot, nil
}

func (s *Service) invalidate() {
	s.snapshots.Delete(snapshotCacheKey)
}

func (s *Service) CreateResident(ctx context.Context, req ledgerdomain.CreateResidentRequest) (*ledgerdomain.Resident, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, s.rejected("create_resident", ledgerdomain.NewValidationError("name", "required"))
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, s.rejected("create_resident", ledgerdomain.NewValidationError("phone", "required"))
	}
	room := strings.TrimSpace(req.Room)
	if room == "" {
		return nil, s.rejected("create_resident", ledgerdomain.NewValidationError("room", "required"))
	}

	resident := &ledgerdomain.Resident{
		ID:        s.genID.Generate(),
		Name:      name,
		Phone:     phone,
		Room:      room,
		Status:    ledgerdomain.ResidentStatusActive,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.InsertResident(ctx, resident); err != nil {
		return nil, s.failed("create_resident", err)
	}
	s.invalidate()
	metrics.Ledger().IncOperation("create_resident", "success")
	s.log.Info("resident registered",
		zap.String("resident_id", resident.ID.String()),
		zap.String("phone", logger.MaskPhone(resident.Phone)),
	)
	return resident, nil
}

// DeleteResident removes a resident whose balance is exactly zero, along with
// their assignments. Payment history is retained.
func (s *Service) DeleteResident(ctx context.Context, id snowflake.ID) error {
	snapshot, err := s.Reload(ctx)
	if err != nil {
		return s.failed("delete_resident", err)
	}
	if snapshot.ResidentByID(id) == nil {
		return s.rejected("delete_resident", ledgerdomain.ErrResidentNotFound)
	}
	if balance := snapshot.BalanceOf(id); balance != 0 {
		return s.rejected("delete_resident", &ledgerdomain.OutstandingBalanceError{Balance: balance})
	}

	if err := s.repo.DeleteResident(ctx, id); err != nil {
		return s.failed("delete_resident", err)
	}
	s.invalidate()
	metrics.Ledger().IncOperation("delete_resident", "success")
	s.log.Info("resident deleted", zap.String("resident_id", id.String()))
	return nil
}

func (s *Service) CreatePlan(ctx context.Context, req ledgerdomain.CreatePlanRequest) (*ledgerdomain.Plan, error) {
	if err := validatePlanFields(req.Name, req.Meals, req.MonthlyPrice); err != nil {
		return nil, s.rejected("create_plan", err)
	}

	now := s.clock.Now()
	plan := &ledgerdomain.Plan{
		ID:           s.genID.Generate(),
		Name:         strings.TrimSpace(req.Name),
		Meals:        req.Meals,
		MonthlyPrice: req.MonthlyPrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.InsertPlan(ctx, plan); err != nil {
		return nil, s.failed("create_plan", err)
	}
	s.invalidate()
	metrics.Ledger().IncOperation("create_plan", "success")
	return plan, nil
}

// UpdatePlan edits a plan in place. Charges already snapshotted on
// assignments are untouched.
func (s *Service) UpdatePlan(ctx context.Context, req ledgerdomain.UpdatePlanRequest) (*ledgerdomain.Plan, error) {
	if err := validatePlanFields(req.Name, req.Meals, req.MonthlyPrice); err != nil {
		return nil, s.rejected("update_plan", err)
	}

	snapshot, err := s.Reload(ctx)
	if err != nil {
		return nil, s.failed("update_plan", err)
	}
	existing := snapshot.PlanByID(req.ID)
	if existing == nil {
		return nil, s.rejected("update_plan", ledgerdomain.ErrPlanNotFound)
	}

	plan := &ledgerdomain.Plan{
		ID:           req.ID,
		Name:         strings.TrimSpace(req.Name),
		Meals:        req.Meals,
		MonthlyPrice: req.MonthlyPrice,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    s.clock.Now(),
	}
	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return nil, s.failed("update_plan", err)
	}
	s.invalidate()
	metrics.Ledger().IncOperation("update_plan", "success")
	return plan, nil
}

// AssignPlan validates the interval, gates on the overlap check, snapshots
// the prorated charge, and appends the assignment. All checks run before the
// write so a failure leaves no partial state.
func (s *Service) AssignPlan(ctx context.Context, req ledgerdomain.AssignPlanRequest) (*ledgerdomain.Assignment, error) {
	start := ledgerdomain.DateOf(req.StartDate)
	end := ledgerdomain.DateOf(req.EndDate)
	if req.StartDate.IsZero() {
		return nil, s.rejected("assign_plan", ledgerdomain.NewValidationError("start_date", "required"))
	}
	if end.Before(start) {
		return nil, s.rejected("assign_plan", ledgerdomain.NewValidationError("end_date", "must not precede start_date"))
	}

	snapshot, err := s.Reload(ctx)
	if err != nil {
		return nil, s.failed("assign_plan", err)
	}
	if snapshot.ResidentByID(req.ResidentID) == nil {
		return nil, s.rejected("assign_plan", ledgerdomain.ErrResidentNotFound)
	}
	plan := snapshot.PlanByID(req.PlanID)
	if plan == nil {
		return nil, s.rejected("assign_plan", ledgerdomain.ErrPlanNotFound)
	}
	if conflict := ledgerdomain.FindConflict(snapshot.Assignments, req.ResidentID, start, end); conflict != nil {
		return nil, s.rejected("assign_plan", &ledgerdomain.ConflictError{
			Start: conflict.StartDate,
			End:   conflict.EndDate,
		})
	}

	assignment := &ledgerdomain.Assignment{
		ID:         s.genID.Generate(),
		ResidentID: req.ResidentID,
		PlanID:     req.PlanID,
		StartDate:  start,
		EndDate:    end,
		Charge:     ledgerdomain.Prorate(plan.MonthlyPrice, start, end),
		Status:     ledgerdomain.AssignmentStatusActive,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.InsertAssignment(ctx, assignment); err != nil {
		return nil, s.failed("assign_plan", err)
	}
	s.invalidate()
	metrics.Ledger().IncOperation("assign_plan", "success")
	s.log.Info("plan assigned",
		zap.String("resident_id", req.ResidentID.String()),
		zap.String("plan_id", req.PlanID.String()),
		zap.Int64("charge", assignment.Charge),
	)
	return assignment, nil
}

// RecordPayment appends a credit. The transaction reference pre-check is a
// fast path; the unique index on payments.transaction_id closes the race.
func (s *Service) RecordPayment(ctx context.Context, req ledgerdomain.RecordPaymentRequest) (*ledgerdomain.Payment, error) {
	if req.Amount <= 0 {
		return nil, s.rejected("record_payment", ledgerdomain.NewValidationError("amount", "must be positive"))
	}
	if !ledgerdomain.ValidPaymentMode(req.Mode) {
		return nil, s.rejected("record_payment", ledgerdomain.NewValidationError("mode", "unsupported payment mode"))
	}

	status := req.Status
	switch status {
	case "":
		// Administrative entry defaults to verified.
		status = ledgerdomain.PaymentStatusVerified
	case ledgerdomain.PaymentStatusPending, ledgerdomain.PaymentStatusVerified:
	default:
		return nil, s.rejected("record_payment", ledgerdomain.NewValidationError("status", "must be pending or verified"))
	}

	var transactionID *string
	if req.TransactionID != nil {
		trimmed := strings.TrimSpace(*req.TransactionID)
		if trimmed != "" {
			existing, err := s.repo.FindPaymentByTransactionID(ctx, trimmed)
			if err != nil {
				return nil, s.failed("record_payment", err)
			}
			if existing != nil {
				return nil, s.rejected("record_payment", &ledgerdomain.DuplicateError{TransactionID: trimmed})
			}
			transactionID = &trimmed
		}
	}

	snapshot, err := s.Reload(ctx)
	if err != nil {
		return nil, s.failed("record_payment", err)
	}
	if snapshot.ResidentByID(req.ResidentID) == nil {
		return nil, s.rejected("record_payment", ledgerdomain.ErrResidentNotFound)
	}

	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = s.clock.Now()
	}

	payment := &ledgerdomain.Payment{
		ID:            s.genID.Generate(),
		ResidentID:    req.ResidentID,
		Amount:        req.Amount,
		PaidAt:        paidAt,
		Mode:          req.Mode,
		TransactionID: transactionID,
		Note:          req.Note,
		Status:        status,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.repo.InsertPayment(ctx, payment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) && transactionID != nil {
			// Lost the race against a concurrent insert with the same reference.
			return nil, s.rejected("record_payment", &ledgerdomain.DuplicateError{TransactionID: *transactionID})
		}
		return nil, s.failed("record_payment", err)
	}
	s.invalidate()
	metrics.Ledger().IncOperation("record_payment", "success")
	fields := []zap.Field{
		zap.String("resident_id", req.ResidentID.String()),
		zap.Int64("amount", req.Amount),
		zap.String("mode", string(req.Mode)),
		zap.String("status", string(status)),
	}
	if transactionID != nil {
		fields = append(fields, zap.String("transaction_id", logger.MaskTransactionID(*transactionID)))
	}
	s.log.Info("payment recorded", fields...)
	return payment, nil
}

// VerifyPayment promotes a pending payment to verified. Verifying an already
// verified payment is a no-op, so the call is idempotent.
func (s *Service) VerifyPayment(ctx context.Context, id snowflake.ID) error {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return s.rejectedOrFailed("verify_payment", err)
	}
	if payment.Status == ledgerdomain.PaymentStatusVerified {
		metrics.Ledger().IncOperation("verify_payment", "success")
		return nil
	}

	if err := s.repo.UpdatePaymentStatus(ctx, id, ledgerdomain.PaymentStatusVerified); err != nil {
		return s.failed("verify_payment", err)
	}
	s.invalidate()
	metrics.Ledger().IncOperation("verify_payment", "success")
	s.log.Info("payment verified", zap.String("payment_id", id.String()))
	return nil
}

// RejectPayment removes a pending payment from the ledger entirely: once
// rejected it never appears in balances or history again. Verified payments
// are append-only and cannot be rejected.
func (s *Service) RejectPayment(ctx context.Context, id snowflake.ID) error {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return s.rejectedOrFailed("reject_payment", err)
	}
	if payment.Status == ledgerdomain.PaymentStatusVerified {
		return s.rejected("reject_payment", ledgerdomain.NewValidationError("status", "verified payments cannot be rejected"))
	}

	if err := s.repo.DeletePayment(ctx, id); err != nil {
		return s.failed("reject_payment", err)
	}
	s.invalidate()
	metrics.Ledger().IncOperation("reject_payment", "success")
	s.log.Info("payment rejected", zap.String("payment_id", id.String()))
	return nil
}

// UpdateLastReminder stamps the reminder timestamp. No ledger effect.
func (s *Service) UpdateLastReminder(ctx context.Context, residentID snowflake.ID, at time.Time) error {
	if err := s.repo.UpdateLastReminder(ctx, residentID, at); err != nil {
		return s.failed("update_last_reminder", err)
	}
	s.invalidate()
	return nil
}

func (s *Service) findPayment(ctx context.Context, id snowflake.ID) (*ledgerdomain.Payment, error) {
	snapshot, err := s.Reload(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snapshot.Payments {
		if snapshot.Payments[i].ID == id {
			return &snapshot.Payments[i], nil
		}
	}
	return nil, ledgerdomain.ErrPaymentNotFound
}

func validatePlanFields(name string, meals []string, monthlyPrice int64) error {
	if strings.TrimSpace(name) == "" {
		return ledgerdomain.NewValidationError("name", "required")
	}
	if len(meals) == 0 {
		return ledgerdomain.NewValidationError("meals", "at least one meal required")
	}
	for _, meal := range meals {
		if strings.TrimSpace(meal) == "" {
			return ledgerdomain.NewValidationError("meals", "meal labels must not be blank")
		}
	}
	if monthlyPrice < 0 {
		return ledgerdomain.NewValidationError("monthly_price", "must not be negative")
	}
	return nil
}

func (s *Service) rejected(op string, err error) error {
	metrics.Ledger().IncOperation(op, "rejected")
	return err
}

func (s *Service) failed(op string, err error) error {
	metrics.Ledger().IncOperation(op, "failed")
	s.log.Error("ledger operation failed", zap.String("op", op), zap.Error(err))
	return err
}

func (s *Service) rejectedOrFailed(op string, err error) error {
	if errors.Is(err, ledgerdomain.ErrPaymentNotFound) {
		return s.rejected(op, err)
	}
	return s.failed(op, err)
}
