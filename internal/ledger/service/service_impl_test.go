package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hosteldesk/messpro/internal/clock"
	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
	"github.com/hosteldesk/messpro/internal/ledger/repository"
)

var testNow = time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) ledgerdomain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&ledgerdomain.Resident{},
		&ledgerdomain.Plan{},
		&ledgerdomain.Assignment{},
		&ledgerdomain.Payment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	return NewService(Params{
		Repo:  repository.Provide(db),
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.Fixed{T: testNow},
	})
}

func seedResident(t *testing.T, svc ledgerdomain.Service) *ledgerdomain.Resident {
	t.Helper()
	resident, err := svc.CreateResident(context.Background(), ledgerdomain.CreateResidentRequest{
		Name:  "Rahul Sharma",
		Phone: "9876543210",
		Room:  "A-101",
	})
	if err != nil {
		t.Fatalf("create resident: %v", err)
	}
	return resident
}

func seedPlan(t *testing.T, svc ledgerdomain.Service, price int64) *ledgerdomain.Plan {
	t.Helper()
	plan, err := svc.CreatePlan(context.Background(), ledgerdomain.CreatePlanRequest{
		Name:         "Full Mess",
		Meals:        []string{"breakfast", "lunch", "dinner"},
		MonthlyPrice: price,
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return plan
}

func TestAssignPlanProratesCharge(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	resident := seedResident(t, svc)
	plan := seedPlan(t, svc, 4500)

	// 20 days of February 2024, a 29-day month: 4500*20/29 rounds to 3103.
	assignment, err := svc.AssignPlan(ctx, ledgerdomain.AssignPlanRequest{
		ResidentID: resident.ID,
		PlanID:     plan.ID,
		StartDate:  time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("assign plan: %v", err)
	}
	if assignment.Charge != 3103 {
		t.Fatalf("charge = %d, want 3103", assignment.Charge)
	}

	snapshot, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got := snapshot.BalanceOf(resident.ID); got != 3103 {
		t.Fatalf("balance = %d, want 3103", got)
	}
}

func TestAssignPlanRejectsOverlap(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	resident := seedResident(t, svc)
	plan := seedPlan(t, svc, 3000)

	first := ledgerdomain.AssignPlanRequest{
		ResidentID: resident.ID,
		PlanID:     plan.ID,
		StartDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}
	if _, err := svc.AssignPlan(ctx, first); err != nil {
		t.Fatalf("first assignment: %v", err)
	}

	// Shares only the boundary day; intervals are closed so it still conflicts.
	_, err := svc.AssignPlan(ctx, ledgerdomain.AssignPlanRequest{
		ResidentID: resident.ID,
		PlanID:     plan.ID,
		StartDate:  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	var conflict *ledgerdomain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if !conflict.Start.Equal(first.StartDate) {
		t.Fatalf("conflict start = %v, want %v", conflict.Start, first.StartDate)
	}

	// A disjoint follow-up interval is accepted.
	if _, err := svc.AssignPlan(ctx, ledgerdomain.AssignPlanRequest{
		ResidentID: resident.ID,
		PlanID:     plan.ID,
		StartDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("disjoint assignment: %v", err)
	}
}

func TestAssignPlanRejectsInvertedInterval(t *testing.T) {
	svc := newTestService(t)
	resident := seedResident(t, svc)
	plan := seedPlan(t, svc, 3000)

	_, err := svc.AssignPlan(context.Background(), ledgerdomain.AssignPlanRequest{
		ResidentID: resident.ID,
		PlanID:     plan.ID,
		StartDate:  time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
	})
	var verr *ledgerdomain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRecordPaymentDuplicateTransaction(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	resident := seedResident(t, svc)

	txn := "UPI-20240215-0001"
	if _, err := svc.RecordPayment(ctx, ledgerdomain.RecordPaymentRequest{
		ResidentID:    resident.ID,
		Amount:        1500,
		Mode:          ledgerdomain.PaymentModeUPI,
		TransactionID: &txn,
	}); err != nil {
		t.Fatalf("first payment: %v", err)
	}

	_, err := svc.RecordPayment(ctx, ledgerdomain.RecordPaymentRequest{
		ResidentID:    resident.ID,
		Amount:        1500,
		Mode:          ledgerdomain.PaymentModeUPI,
		TransactionID: &txn,
	})
	var dup *ledgerdomain.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if dup.TransactionID != txn {
		t.Fatalf("duplicate reference = %q, want %q", dup.TransactionID, txn)
	}
}

func TestRecordPaymentDefaultsToVerified(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	resident := seedResident(t, svc)

	payment, err := svc.RecordPayment(ctx, ledgerdomain.RecordPaymentRequest{
		ResidentID: resident.ID,
		Amount:     500,
		Mode:       ledgerdomain.PaymentModeCash,
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if payment.Status != ledgerdomain.PaymentStatusVerified {
		t.Fatalf("status = %s, want verified", payment.Status)
	}
	if !payment.PaidAt.Equal(testNow) {
		t.Fatalf("paid_at = %v, want clock time %v", payment.PaidAt, testNow)
	}
}

func TestVerifyPaymentIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	resident := seedResident(t, svc)

	payment, err := svc.RecordPayment(ctx, ledgerdomain.RecordPaymentRequest{
		ResidentID: resident.ID,
		Amount:     800,
		Mode:       ledgerdomain.PaymentModeOnline,
		Status:     ledgerdomain.PaymentStatusPending,
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	snapshot, _ := svc.Snapshot(ctx)
	if got := snapshot.BalanceOf(resident.ID); got != 0 {
		t.Fatalf("pending payment must not affect balance, got %d", got)
	}

	if err := svc.VerifyPayment(ctx, payment.ID); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.VerifyPayment(ctx, payment.ID); err != nil {
		t.Fatalf("second verify must be a no-op: %v", err)
	}

	snapshot, _ = svc.Snapshot(ctx)
	if got := snapshot.BalanceOf(resident.ID); got != -800 {
		t.Fatalf("balance after verify = %d, want -800", got)
	}
}

func TestRejectPaymentRemovesPendingOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	resident := seedResident(t, svc)

	pending, err := svc.RecordPayment(ctx, ledgerdomain.RecordPaymentRequest{
		ResidentID: resident.ID,
		Amount:     800,
		Mode:       ledgerdomain.PaymentModeUPI,
		Status:     ledgerdomain.PaymentStatusPending,
	})
	if err != nil {
		t.Fatalf("record pending: %v", err)
	}
	if err := svc.RejectPayment(ctx, pending.ID); err != nil {
		t.Fatalf("reject pending: %v", err)
	}

	snapshot, _ := svc.Snapshot(ctx)
	if len(snapshot.PaymentsOf(resident.ID)) != 0 {
		t.Fatal("rejected payment must vanish from history")
	}
	if err := svc.RejectPayment(ctx, pending.ID); !errors.Is(err, ledgerdomain.ErrPaymentNotFound) {
		t.Fatalf("rejecting twice should report not found, got %v", err)
	}

	verified, err := svc.RecordPayment(ctx, ledgerdomain.RecordPaymentRequest{
		ResidentID: resident.ID,
		Amount:     500,
		Mode:       ledgerdomain.PaymentModeCash,
	})
	if err != nil {
		t.Fatalf("record verified: %v", err)
	}
	var verr *ledgerdomain.ValidationError
	if err := svc.RejectPayment(ctx, verified.ID); !errors.As(err, &verr) {
		t.Fatalf("rejecting a verified payment must fail, got %v", err)
	}
}

func TestDeleteResidentGuardsOutstandingBalance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	resident := seedResident(t, svc)
	plan := seedPlan(t, svc, 2900)

	assignment, err := svc.AssignPlan(ctx, ledgerdomain.AssignPlanRequest{
		ResidentID: resident.ID,
		PlanID:     plan.ID,
		StartDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("assign plan: %v", err)
	}

	var outstanding *ledgerdomain.OutstandingBalanceError
	if err := svc.DeleteResident(ctx, resident.ID); !errors.As(err, &outstanding) {
		t.Fatalf("expected OutstandingBalanceError, got %v", err)
	}
	if outstanding.Balance != assignment.Charge {
		t.Fatalf("reported balance = %d, want %d", outstanding.Balance, assignment.Charge)
	}

	// Settle to exactly zero, then deletion goes through.
	if _, err := svc.RecordPayment(ctx, ledgerdomain.RecordPaymentRequest{
		ResidentID: resident.ID,
		Amount:     assignment.Charge,
		Mode:       ledgerdomain.PaymentModeCash,
	}); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if err := svc.DeleteResident(ctx, resident.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snapshot, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot.ResidentByID(resident.ID) != nil {
		t.Fatal("resident should be gone")
	}
	if len(snapshot.AssignmentsOf(resident.ID)) != 0 {
		t.Fatal("assignments should be gone")
	}
	if len(snapshot.PaymentsOf(resident.ID)) != 1 {
		t.Fatal("payment history must survive resident deletion")
	}
}

func TestSnapshotReflectsMutations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	before, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(before.Residents) != 0 {
		t.Fatalf("expected empty ledger, got %d residents", len(before.Residents))
	}

	seedResident(t, svc)

	// The mutation invalidates the cached snapshot, so no TTL wait is needed.
	after, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(after.Residents) != 1 {
		t.Fatalf("expected 1 resident after create, got %d", len(after.Residents))
	}
}

func TestCreateResidentValidation(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateResident(context.Background(), ledgerdomain.CreateResidentRequest{
		Name:  "  ",
		Phone: "9876543210",
		Room:  "A-101",
	})
	var verr *ledgerdomain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "name" {
		t.Fatalf("field = %q, want name", verr.Field)
	}
}
