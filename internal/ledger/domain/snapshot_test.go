package domain

import (
	"testing"
	"time"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Residents: []Resident{
			{ID: 1, Name: "Rahul Sharma", Status: ResidentStatusActive},
			{ID: 2, Name: "Priya Verma", Status: ResidentStatusActive},
		},
		Assignments: []Assignment{
			{ID: 10, ResidentID: 1, PlanID: 100, StartDate: date(2024, time.May, 1), EndDate: date(2024, time.May, 31), Charge: 4500, Status: AssignmentStatusActive},
			{ID: 11, ResidentID: 2, PlanID: 100, StartDate: date(2024, time.April, 1), EndDate: date(2024, time.April, 30), Charge: 3000, Status: AssignmentStatusCompleted},
		},
		Payments: []Payment{
			{ID: 20, ResidentID: 1, Amount: 2000, PaidAt: date(2024, time.May, 5), Mode: PaymentModeUPI, Status: PaymentStatusVerified},
			{ID: 21, ResidentID: 1, Amount: 1000, PaidAt: date(2024, time.May, 10), Mode: PaymentModeCash, Status: PaymentStatusPending},
			{ID: 22, ResidentID: 2, Amount: 3000, PaidAt: date(2024, time.April, 15), Mode: PaymentModeOnline, Status: PaymentStatusVerified},
		},
	}
}

func TestBalanceOfCountsOnlyVerifiedPayments(t *testing.T) {
	s := testSnapshot()
	if got := s.BalanceOf(1); got != 2500 {
		t.Fatalf("expected 4500 - 2000 = 2500 (pending ignored), got %d", got)
	}
	if got := s.BalanceOf(2); got != 0 {
		t.Fatalf("expected settled balance 0, got %d", got)
	}
}

func TestBalanceOfUnknownResidentIsZero(t *testing.T) {
	s := testSnapshot()
	if got := s.BalanceOf(999); got != 0 {
		t.Fatalf("expected 0 for unknown resident, got %d", got)
	}
}

func TestActiveAssignmentOfPicksLatestStart(t *testing.T) {
	s := &Snapshot{
		Assignments: []Assignment{
			{ID: 1, ResidentID: 5, StartDate: date(2024, time.May, 1), EndDate: date(2024, time.May, 31), Status: AssignmentStatusActive},
			{ID: 2, ResidentID: 5, StartDate: date(2024, time.May, 10), EndDate: date(2024, time.June, 10), Status: AssignmentStatusActive},
		},
	}
	ref := date(2024, time.May, 15)
	got := s.ActiveAssignmentOf(5, ref)
	if got == nil || got.ID != 2 {
		t.Fatalf("expected assignment 2 (latest start) to win, got %+v", got)
	}
}

func TestActiveAssignmentOfRequiresCoverage(t *testing.T) {
	s := testSnapshot()
	if got := s.ActiveAssignmentOf(1, date(2024, time.June, 15)); got != nil {
		t.Fatalf("expected nil outside the interval, got %+v", got)
	}
	if got := s.ActiveAssignmentOf(1, date(2024, time.May, 31)); got == nil {
		t.Fatalf("expected end date to still be covered")
	}
}

func TestCurrentAssignmentOfIncludesElapsed(t *testing.T) {
	s := testSnapshot()
	got := s.CurrentAssignmentOf(1)
	if got == nil || got.ID != 10 {
		t.Fatalf("expected elapsed active assignment 10, got %+v", got)
	}
	// Completed assignments are never current.
	if got := s.CurrentAssignmentOf(2); got != nil {
		t.Fatalf("expected nil for resident with only completed assignments, got %+v", got)
	}
}

func TestClassifyResidentEndToEnd(t *testing.T) {
	s := testSnapshot()

	// Resident 2: no current assignment, zero balance.
	if got := s.ClassifyResident(2, date(2024, time.May, 15)); got.Label != StatusInactive {
		t.Fatalf("expected Inactive, got %+v", got)
	}

	// Resident 1 mid-plan with dues: plan still covers today, so Ongoing.
	if got := s.ClassifyResident(1, date(2024, time.May, 15)); got.Label != StatusOngoing {
		t.Fatalf("expected Ongoing, got %+v", got)
	}

	// After the plan elapses with 2500 outstanding: Overdue.
	if got := s.ClassifyResident(1, date(2024, time.June, 15)); got.Label != StatusOverdue || !got.IsOverdue {
		t.Fatalf("expected Overdue, got %+v", got)
	}
}

func TestResidentsWithBalancesSortedDescending(t *testing.T) {
	s := testSnapshot()
	got := s.ResidentsWithBalances()
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Balance != 2500 {
		t.Fatalf("expected resident 1 with balance 2500 first, got %+v", got[0])
	}
}

func TestPendingPaymentsNewestFirst(t *testing.T) {
	s := testSnapshot()
	s.Payments = append(s.Payments, Payment{
		ID: 23, ResidentID: 2, Amount: 100, PaidAt: date(2024, time.May, 20), Mode: PaymentModeUPI, Status: PaymentStatusPending,
	})
	got := s.PendingPayments()
	if len(got) != 2 {
		t.Fatalf("expected 2 pending payments, got %d", len(got))
	}
	if got[0].ID != 23 || got[1].ID != 21 {
		t.Fatalf("expected newest-first order, got %v then %v", got[0].ID, got[1].ID)
	}
}
