package core

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleApprover Role = "approver"
	RoleAdmin    Role = "admin"
)

// CanTransition reports whether the role is allowed to approve or reject
// proposals. Employees may only submit and view.
func (r Role) CanTransition() bool {
	return r == RoleApprover || r == RoleAdmin
}

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleApprover || r == RoleAdmin
}

// Event is a proposed office activity with a time window, lifecycle status
// and optional budget. ApprovedBy and ApprovalRemarks stay null until the
// event leaves pending.
type Event struct {
	Id              string    `json:"id,omitempty"`
	Title           string    `json:"title,omitempty"`
	Description     string    `json:"description,omitempty"`
	StartTime       time.Time `json:"start_time,omitempty"`
	EndTime         time.Time `json:"end_time,omitempty"`
	Budget          *float64  `json:"budget,omitempty"`
	Status          Status    `json:"status,omitempty"`
	CreatedBy       string    `json:"created_by,omitempty"`
	CreatorName     string    `json:"creator_name,omitempty"`
	ApprovedBy      *string   `json:"approved_by,omitempty"`
	ApprovalRemarks *string   `json:"approval_remarks,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// Identity is the authenticated caller, as asserted by the identity
// collaborator. The core never owns user records.
type Identity struct {
	Id   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Role Role   `json:"role,omitempty"`
}

// Proposal is the submission input. ConfirmOverlap acknowledges a prior
// overlap warning; submission is never hard-blocked by overlap.
type Proposal struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Budget         *float64  `json:"budget"`
	ConfirmOverlap bool      `json:"confirm_overlap"`
}

// Decision carries the transition input. Remarks is tri-state: nil means the
// caller abandoned the remarks step and the transition must not proceed,
// empty string means confirmed without remarks.
type Decision struct {
	Remarks        *string `json:"remarks"`
	ConfirmOverlap bool    `json:"confirm_overlap"`
}

// Notification mirrors the portal notifications table; the repository writes
// one for the creator whenever an event leaves pending.
type Notification struct {
	UserId  string `json:"user_id,omitempty"`
	Type    string `json:"type,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
	Link    string `json:"link,omitempty"`
}
