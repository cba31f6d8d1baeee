package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestValidateProposal(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name     string
		proposal Proposal
		wantErr  bool
		errMsg   string
	}{
		{
			name: "valid proposal",
			proposal: Proposal{
				Title:     "Monthly Lunch",
				StartTime: now,
				EndTime:   now.Add(time.Hour),
			},
			wantErr: false,
		},
		{
			name: "valid proposal with budget",
			proposal: Proposal{
				Title:     "Monthly Lunch",
				StartTime: now,
				EndTime:   now.Add(time.Hour),
				Budget:    ptr(1500.0),
			},
			wantErr: false,
		},
		{
			name: "zero budget is fine",
			proposal: Proposal{
				Title:     "Monthly Lunch",
				StartTime: now,
				EndTime:   now.Add(time.Hour),
				Budget:    ptr(0.0),
			},
			wantErr: false,
		},
		{
			name: "empty title",
			proposal: Proposal{
				Title:     "   ",
				StartTime: now,
				EndTime:   now.Add(time.Hour),
			},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name: "title too long",
			proposal: Proposal{
				Title:     string(make([]byte, 101)),
				StartTime: now,
				EndTime:   now.Add(time.Hour),
			},
			wantErr: true,
			errMsg:  "title is too long (100 characters tops)",
		},
		{
			name: "missing times",
			proposal: Proposal{
				Title: "Monthly Lunch",
			},
			wantErr: true,
			errMsg:  "start time and end time are required",
		},
		{
			name: "end time before start time",
			proposal: Proposal{
				Title:     "Monthly Lunch",
				StartTime: now,
				EndTime:   now.Add(-time.Hour),
			},
			wantErr: true,
			errMsg:  "end time must be after start time",
		},
		{
			name: "end time equal to start time",
			proposal: Proposal{
				Title:     "Monthly Lunch",
				StartTime: now,
				EndTime:   now,
			},
			wantErr: true,
			errMsg:  "end time must be after start time",
		},
		{
			name: "negative budget",
			proposal: Proposal{
				Title:     "Monthly Lunch",
				StartTime: now,
				EndTime:   now.Add(time.Hour),
				Budget:    ptr(-1.0),
			},
			wantErr: true,
			errMsg:  "budget must be a non-negative number",
		},
		{
			name: "NaN budget",
			proposal: Proposal{
				Title:     "Monthly Lunch",
				StartTime: now,
				EndTime:   now.Add(time.Hour),
				Budget:    ptr(math.NaN()),
			},
			wantErr: true,
			errMsg:  "budget must be a non-negative number",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateProposal(tt.proposal)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)

				var validationErr *ValidationError
				assert.ErrorAs(t, err, &validationErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
