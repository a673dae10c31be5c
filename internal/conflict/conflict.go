// Package conflict decides whether a candidate time block may enter an
// event. Both schedule and vote creation run the same check against the
// union of the event's existing schedule and vote ranges.
package conflict

import "eventful/internal/models"

// HasOverlap reports whether the candidate half-open range overlaps any of
// the existing ranges. Two ranges [s1,e1) and [s2,e2) overlap iff
// s1 < e2 && s2 < e1; ranges that only touch at a boundary do not.
func HasOverlap(candidate models.TimeRange, existing []models.TimeRange) bool {
	for _, r := range existing {
		if candidate.Overlaps(r) {
			return true
		}
	}
	return false
}
