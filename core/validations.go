package core

import (
	"math"
	"strings"
)

func ValidateProposal(proposal Proposal) error {
	proposal.Title = strings.TrimSpace(proposal.Title)
	if len(proposal.Title) == 0 {
		return &ValidationError{Reason: "title is required"}
	}

	if len(proposal.Title) > 100 {
		return &ValidationError{Reason: "title is too long (100 characters tops)"}
	}

	if proposal.StartTime.IsZero() || proposal.EndTime.IsZero() {
		return &ValidationError{Reason: "start time and end time are required"}
	}

	if !proposal.EndTime.After(proposal.StartTime) {
		return &ValidationError{Reason: "end time must be after start time"}
	}

	if proposal.Budget != nil {
		budget := *proposal.Budget
		if math.IsNaN(budget) || math.IsInf(budget, 0) || budget < 0 {
			return &ValidationError{Reason: "budget must be a non-negative number"}
		}
	}

	return nil
}
