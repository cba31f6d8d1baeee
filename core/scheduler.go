package core

import (
	"context"
	"fmt"
)

type Scheduler interface {
	Submit(ctx context.Context, who Identity, proposal Proposal) (*Event, error)
	Transition(ctx context.Context, who Identity, id string, target Status, decision Decision) (*Event, error)
	Events(ctx context.Context, who Identity) ([]Event, error)
	EventById(ctx context.Context, who Identity, id string) (*Event, error)
}

type scheduler struct {
	repository Repository
}

func NewScheduler(repository Repository) Scheduler {
	return &scheduler{repository: repository}
}

// Submit validates the proposal, warns about overlaps with approved events
// and stores the event as pending. Overlap never hard-blocks a submission: a
// ConflictError tells the caller to resubmit with ConfirmOverlap set.
func (s *scheduler) Submit(ctx context.Context, who Identity, proposal Proposal) (*Event, error) {
	err := ValidateProposal(proposal)
	if err != nil {
		return nil, err
	}

	events, err := s.repository.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for overlap check: %w", err)
	}

	conflicts := Overlapping(events, proposal.StartTime, proposal.EndTime, "")
	if len(conflicts) > 0 && !proposal.ConfirmOverlap {
		return nil, &ConflictError{Stage: "submission", Conflicts: conflicts}
	}

	event := &Event{
		Title:       proposal.Title,
		Description: proposal.Description,
		StartTime:   proposal.StartTime,
		EndTime:     proposal.EndTime,
		Budget:      proposal.Budget,
		CreatedBy:   who.Id,
	}

	saved, err := s.repository.SaveEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	saved.CreatorName = who.Name

	return saved, nil
}

// Transition moves a pending event to approved or rejected. Transitions are
// one-way; a finalized event cannot be touched again. Approval re-checks the
// overlap set a second time inside the repository transaction, so the
// pre-check here is advisory and the locked re-validation is authoritative.
func (s *scheduler) Transition(ctx context.Context, who Identity, id string, target Status, decision Decision) (*Event, error) {
	if !who.Role.CanTransition() {
		return nil, ErrPermissionDenied
	}

	if target != StatusApproved && target != StatusRejected {
		return nil, ErrInvalidTargetStatus
	}

	// A nil remarks field means the remarks step was abandoned; nothing may
	// change, not even a remark-less write.
	if decision.Remarks == nil {
		return nil, ErrTransitionCancelled
	}

	event, err := s.repository.GetEventById(ctx, id)
	if err != nil {
		return nil, err
	}

	if event.Status != StatusPending {
		return nil, ErrEventFinalized
	}

	if target == StatusApproved {
		events, err := s.repository.ListEvents(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list events for overlap check: %w", err)
		}

		conflicts := Overlapping(events, event.StartTime, event.EndTime, event.Id)
		if len(conflicts) > 0 && !decision.ConfirmOverlap {
			return nil, &ConflictError{Stage: "approval", Conflicts: conflicts}
		}
	}

	return s.repository.TransitionEvent(ctx, event, target, who.Id, *decision.Remarks, decision.ConfirmOverlap)
}

// Events returns the ledger filtered for the viewer.
func (s *scheduler) Events(ctx context.Context, who Identity) ([]Event, error) {
	events, err := s.repository.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	return Visible(who, events), nil
}

// EventById applies the same visibility rule as the list view, so a foreign
// pending event reads as not found for an employee.
func (s *scheduler) EventById(ctx context.Context, who Identity, id string) (*Event, error) {
	event, err := s.repository.GetEventById(ctx, id)
	if err != nil {
		return nil, err
	}

	if who.Role == RoleEmployee && event.CreatedBy != who.Id && event.Status != StatusApproved {
		return nil, ErrEventNotFound
	}

	return event, nil
}

// Visible computes the viewer's subset: employees see their own events plus
// every approved one, approvers and admins see everything. Display-only; the
// overlap detector always works over the unfiltered set.
func Visible(who Identity, events []Event) []Event {
	if who.Role != RoleEmployee {
		return events
	}

	visible := make([]Event, 0, len(events))

	for _, e := range events {
		if e.CreatedBy == who.Id || e.Status == StatusApproved {
			visible = append(visible, e)
		}
	}

	return visible
}
