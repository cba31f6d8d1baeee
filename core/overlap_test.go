package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestOverlapping(t *testing.T) {
	t.Parallel()

	approved := Event{Id: "a", Title: "Town Hall", Status: StatusApproved, StartTime: at(10, 0), EndTime: at(11, 0)}
	pending := Event{Id: "p", Title: "Pending Lunch", Status: StatusPending, StartTime: at(10, 0), EndTime: at(11, 0)}
	rejected := Event{Id: "r", Title: "Rejected Offsite", Status: StatusRejected, StartTime: at(10, 0), EndTime: at(11, 0)}

	tests := []struct {
		name      string
		events    []Event
		start     time.Time
		end       time.Time
		excludeId string
		want      []string
	}{
		{
			name:   "partial overlap conflicts",
			events: []Event{approved},
			start:  at(10, 30), end: at(11, 30),
			want: []string{"a"},
		},
		{
			name:   "containment conflicts",
			events: []Event{approved},
			start:  at(9, 0), end: at(12, 0),
			want: []string{"a"},
		},
		{
			name:   "back to back does not conflict",
			events: []Event{approved},
			start:  at(11, 0), end: at(12, 0),
			want: nil,
		},
		{
			name:   "back to back before does not conflict",
			events: []Event{approved},
			start:  at(9, 0), end: at(10, 0),
			want: nil,
		},
		{
			name:   "pending and rejected never conflict",
			events: []Event{pending, rejected},
			start:  at(10, 30), end: at(11, 30),
			want: nil,
		},
		{
			name:   "own id excluded",
			events: []Event{approved},
			start:  at(10, 0), end: at(11, 0),
			excludeId: "a",
			want:      nil,
		},
		{
			name: "order follows input",
			events: []Event{
				{Id: "b", Status: StatusApproved, StartTime: at(10, 30), EndTime: at(11, 30)},
				approved,
			},
			start: at(10, 0), end: at(12, 0),
			want: []string{"b", "a"},
		},
		{
			name:   "inverted range matches nothing",
			events: []Event{approved},
			start:  at(11, 0), end: at(10, 0),
			want: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Overlapping(tt.events, tt.start, tt.end, tt.excludeId)

			var ids []string
			for _, e := range got {
				ids = append(ids, e.Id)
			}

			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestOverlapping_Symmetry(t *testing.T) {
	t.Parallel()

	a := Event{Id: "a", Status: StatusApproved, StartTime: at(10, 0), EndTime: at(11, 0)}
	b := Event{Id: "b", Status: StatusApproved, StartTime: at(10, 30), EndTime: at(11, 30)}

	assert.Len(t, Overlapping([]Event{b}, a.StartTime, a.EndTime, ""), 1)
	assert.Len(t, Overlapping([]Event{a}, b.StartTime, b.EndTime, ""), 1)
}
