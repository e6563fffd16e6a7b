package domain

import (
	"fmt"
	"time"
)

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of calendar days in the month containing d.
func DaysInMonth(d time.Time) int {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// Prorate computes the charge for a plan priced monthly over the inclusive
// interval [start, end]. The divisor is always the length of the month
// containing start, even when the interval spans into a following month.
// Rounds half-up to the nearest rupee. Panics when end precedes start.
func Prorate(monthlyPrice int64, start, end time.Time) int64 {
	startDay := DateOf(start)
	endDay := DateOf(end)
	if endDay.Before(startDay) {
		panic(fmt.Sprintf("prorate: end date %s before start date %s",
			endDay.Format(time.DateOnly), startDay.Format(time.DateOnly)))
	}

	activeDays := int(endDay.Sub(startDay)/(24*time.Hour)) + 1
	dailyRate := float64(monthlyPrice) / float64(DaysInMonth(startDay))
	return roundHalfUp(dailyRate * float64(activeDays))
}

// DaysRemaining returns the whole number of days from ref until end, with both
// normalized to calendar dates. Zero means end is today; negative values mean
// the interval has already elapsed. The reference time is injected so callers
// stay deterministic under test.
func DaysRemaining(end time.Time, ref time.Time) int {
	return int(DateOf(end).Sub(DateOf(ref)) / (24 * time.Hour))
}

func roundHalfUp(v float64) int64 {
	return int64(v + 0.5)
}
