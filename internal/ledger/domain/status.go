package domain

// StatusLabel is the derived subscription state shown to consumers.
type StatusLabel string

const (
	StatusOngoing      StatusLabel = "Ongoing"
	StatusExpiringSoon StatusLabel = "Expiring Soon"
	StatusOverdue      StatusLabel = "Overdue"
	StatusExpired      StatusLabel = "Expired"
	StatusInactive     StatusLabel = "Inactive"
)

// BalanceTolerance absorbs rounding noise from proration: an expired plan
// with a residual balance at or below this many rupees is not overdue.
const BalanceTolerance int64 = 10

// expiryWarningDays is the window before a plan's end date during which the
// subscription is reported as expiring soon.
const expiryWarningDays = 3

// SubscriptionStatus is the classifier output.
type SubscriptionStatus struct {
	Label     StatusLabel `json:"label"`
	IsOverdue bool        `json:"is_overdue"`
}

// Classify derives a resident's subscription state from their most recent
// active assignment (nil when none), current balance, and the days remaining
// until that assignment's end date. daysRemaining is ignored when active is
// nil. Rules are evaluated in order; the first match wins.
func Classify(active *Assignment, balance int64, daysRemaining int) SubscriptionStatus {
	if active == nil {
		if balance > 0 {
			return SubscriptionStatus{Label: StatusOverdue, IsOverdue: true}
		}
		return SubscriptionStatus{Label: StatusInactive}
	}

	if daysRemaining < 0 {
		if balance > BalanceTolerance {
			return SubscriptionStatus{Label: StatusOverdue, IsOverdue: true}
		}
		return SubscriptionStatus{Label: StatusExpired}
	}

	if daysRemaining <= expiryWarningDays {
		return SubscriptionStatus{Label: StatusExpiringSoon}
	}
	return SubscriptionStatus{Label: StatusOngoing}
}
