package domain

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Snapshot is an immutable view of the four entity collections, fetched in a
// single repository read. Every derived figure is computed against one
// snapshot so concurrent reads stay consistent.
type Snapshot struct {
	Residents   []Resident
	Plans       []Plan
	Assignments []Assignment
	Payments    []Payment
}

// ResidentBalance joins a resident with their computed balance.
type ResidentBalance struct {
	Resident
	Balance int64 `json:"balance"`
}

// ResidentByID looks up a resident record.
func (s *Snapshot) ResidentByID(id snowflake.ID) *Resident {
	for i := range s.Residents {
		if s.Residents[i].ID == id {
			return &s.Residents[i]
		}
	}
	return nil
}

// PlanByID looks up a plan record.
func (s *Snapshot) PlanByID(id snowflake.ID) *Plan {
	for i := range s.Plans {
		if s.Plans[i].ID == id {
			return &s.Plans[i]
		}
	}
	return nil
}

// BalanceOf computes charges minus verified payments for the resident.
// Pending payments never count; rejected payments were deleted and so cannot.
func (s *Snapshot) BalanceOf(residentID snowflake.ID) int64 {
	var balance int64
	for i := range s.Assignments {
		if s.Assignments[i].ResidentID == residentID {
			balance += s.Assignments[i].Charge
		}
	}
	for i := range s.Payments {
		p := &s.Payments[i]
		if p.ResidentID == residentID && p.Status == PaymentStatusVerified {
			balance -= p.Amount
		}
	}
	return balance
}

// ActiveAssignmentOf returns the active assignment covering ref. When the
// data holds more than one (single-activeness is a convention, not a
// constraint) the one with the latest start date wins, so the pick is
// deterministic.
func (s *Snapshot) ActiveAssignmentOf(residentID snowflake.ID, ref time.Time) *Assignment {
	var picked *Assignment
	for i := range s.Assignments {
		a := &s.Assignments[i]
		if a.ResidentID != residentID || a.Status != AssignmentStatusActive || !a.Covers(ref) {
			continue
		}
		if picked == nil || a.StartDate.After(picked.StartDate) {
			picked = a
		}
	}
	return picked
}

// CurrentAssignmentOf returns the resident's most recent active assignment
// regardless of whether its interval has elapsed. This is the classifier
// input: an elapsed-but-active assignment is what distinguishes Expired and
// Overdue from Inactive. Latest start date wins.
func (s *Snapshot) CurrentAssignmentOf(residentID snowflake.ID) *Assignment {
	var picked *Assignment
	for i := range s.Assignments {
		a := &s.Assignments[i]
		if a.ResidentID != residentID || a.Status != AssignmentStatusActive {
			continue
		}
		if picked == nil || a.StartDate.After(picked.StartDate) {
			picked = a
		}
	}
	return picked
}

// ClassifyResident derives the resident's subscription status at ref.
func (s *Snapshot) ClassifyResident(residentID snowflake.ID, ref time.Time) SubscriptionStatus {
	current := s.CurrentAssignmentOf(residentID)
	balance := s.BalanceOf(residentID)
	days := 0
	if current != nil {
		days = DaysRemaining(current.EndDate, ref)
	}
	return Classify(current, balance, days)
}

// ResidentsWithBalances returns every resident joined with their balance,
// sorted by balance descending.
func (s *Snapshot) ResidentsWithBalances() []ResidentBalance {
	out := make([]ResidentBalance, 0, len(s.Residents))
	for _, r := range s.Residents {
		out = append(out, ResidentBalance{Resident: r, Balance: s.BalanceOf(r.ID)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Balance > out[j].Balance })
	return out
}

// AssignmentsOf returns the resident's assignments, newest start date first.
func (s *Snapshot) AssignmentsOf(residentID snowflake.ID) []Assignment {
	var out []Assignment
	for _, a := range s.Assignments {
		if a.ResidentID == residentID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out
}

// PaymentsOf returns the resident's payments, newest first. Payments survive
// resident deletion, so this works for orphaned resident ids too.
func (s *Snapshot) PaymentsOf(residentID snowflake.ID) []Payment {
	var out []Payment
	for _, p := range s.Payments {
		if p.ResidentID == residentID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out
}

// PendingPayments returns the review queue, newest first.
func (s *Snapshot) PendingPayments() []Payment {
	var out []Payment
	for _, p := range s.Payments {
		if p.Status == PaymentStatusPending {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out
}
