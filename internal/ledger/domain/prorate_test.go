package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProrateFullLeapMonth(t *testing.T) {
	got := Prorate(3000, date(2024, time.February, 1), date(2024, time.February, 29))
	if got != 3000 {
		t.Fatalf("expected full month charge 3000, got %d", got)
	}
}

func TestProrateSingleDay(t *testing.T) {
	got := Prorate(3000, date(2024, time.February, 1), date(2024, time.February, 1))
	if got != 103 {
		t.Fatalf("expected round(3000/29) = 103, got %d", got)
	}
}

func TestProrateUsesStartMonthDivisor(t *testing.T) {
	// Feb 15 .. Mar 15 2023: 29 active days, divisor is February's 28 days.
	got := Prorate(2800, date(2023, time.February, 15), date(2023, time.March, 15))
	if got != 2900 {
		t.Fatalf("expected 100/day * 29 days = 2900, got %d", got)
	}
}

func TestProrateRoundsHalfUp(t *testing.T) {
	// 300/30 = 10/day; 10*0.5-rupee cases do not arise with integer rates, so
	// force a fractional daily rate: 1000/31 ≈ 32.258, one day rounds to 32.
	if got := Prorate(1000, date(2024, time.January, 1), date(2024, time.January, 1)); got != 32 {
		t.Fatalf("expected 32, got %d", got)
	}
	// 15 days: 483.87 rounds to 484.
	if got := Prorate(1000, date(2024, time.January, 1), date(2024, time.January, 15)); got != 484 {
		t.Fatalf("expected 484, got %d", got)
	}
}

func TestProratePanicsOnInvertedInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when end precedes start")
		}
	}()
	Prorate(3000, date(2024, time.March, 2), date(2024, time.March, 1))
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		d    time.Time
		want int
	}{
		{date(2024, time.February, 10), 29},
		{date(2023, time.February, 10), 28},
		{date(2024, time.April, 1), 30},
		{date(2024, time.December, 31), 31},
	}
	for _, tc := range cases {
		if got := DaysInMonth(tc.d); got != tc.want {
			t.Fatalf("DaysInMonth(%s) = %d, want %d", tc.d.Format(time.DateOnly), got, tc.want)
		}
	}
}

func TestDaysRemaining(t *testing.T) {
	ref := time.Date(2024, time.June, 10, 14, 30, 0, 0, time.UTC)

	if got := DaysRemaining(date(2024, time.June, 10), ref); got != 0 {
		t.Fatalf("same day: expected 0, got %d", got)
	}
	if got := DaysRemaining(date(2024, time.June, 13), ref); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := DaysRemaining(date(2024, time.June, 9), ref); got != -1 {
		t.Fatalf("elapsed: expected -1, got %d", got)
	}
}

func TestDaysRemainingIgnoresTimeOfDay(t *testing.T) {
	end := time.Date(2024, time.June, 11, 0, 0, 0, 0, time.UTC)
	ref := time.Date(2024, time.June, 10, 23, 59, 59, 0, time.UTC)
	if got := DaysRemaining(end, ref); got != 1 {
		t.Fatalf("expected whole-day comparison to yield 1, got %d", got)
	}
}
