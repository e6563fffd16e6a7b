// Package clock injects time so date-sensitive computations stay
// deterministic under test.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Fixed is a Clock pinned to a constant instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
