package core

import "time"

// Overlapping returns the approved events whose [start_time, end_time) window
// intersects [start, end). Intervals are half-open: two events that merely
// touch at a boundary instant do not conflict. Pending and rejected events
// never participate. When excludeId is non-empty that event is skipped, so an
// event checked during its own approval cannot conflict with itself.
//
// The result keeps the input order. An inverted candidate range matches
// nothing; range validation is the caller's concern.
func Overlapping(events []Event, start, end time.Time, excludeId string) []Event {
	var conflicts []Event

	for _, e := range events {
		if e.Id == excludeId || e.Status != StatusApproved {
			continue
		}

		if start.Before(e.EndTime) && end.After(e.StartTime) {
			conflicts = append(conflicts, e)
		}
	}

	return conflicts
}
