package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// FindConflict returns the first non-completed assignment of the resident
// whose closed interval intersects [start, end], or nil when the proposed
// interval is free. Completed assignments no longer block their dates.
func FindConflict(assignments []Assignment, residentID snowflake.ID, start, end time.Time) *Assignment {
	proposedStart := DateOf(start)
	proposedEnd := DateOf(end)

	for i := range assignments {
		a := &assignments[i]
		if a.ResidentID != residentID || a.Status == AssignmentStatusCompleted {
			continue
		}
		// Closed intervals [s1,e1] and [s2,e2] intersect iff s1 <= e2 && e1 >= s2.
		if !proposedStart.After(DateOf(a.EndDate)) && !proposedEnd.Before(DateOf(a.StartDate)) {
			return a
		}
	}
	return nil
}

// HasOverlap reports whether the proposed interval conflicts with any of the
// resident's non-completed assignments.
func HasOverlap(assignments []Assignment, residentID snowflake.ID, start, end time.Time) bool {
	return FindConflict(assignments, residentID, start, end) != nil
}
