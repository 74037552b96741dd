package schedule

import "spotly/models"

// FindConflicts returns every existing slot whose window overlaps the
// candidate [start,end) on the given day. Windows are half-open: a slot
// ending exactly when another starts does not conflict. excludeID skips the
// slot being edited so it never conflicts with its own prior version.
//
// Pure: no I/O, operates only on the slots the caller already fetched.
func FindConflicts(day string, start, end int, existing []models.Slot, excludeID string) []models.Slot {
	var conflicting []models.Slot
	for _, s := range existing {
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		if s.Day != day {
			continue
		}
		if s.Overlaps(start, end) {
			conflicting = append(conflicting, s)
		}
	}
	return conflicting
}
