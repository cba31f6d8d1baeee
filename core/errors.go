package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrTransitionCancelled = errors.New("transition cancelled")
	ErrEventFinalized      = errors.New("event already approved or rejected")
	ErrInvalidTargetStatus = errors.New("target status must be approved or rejected")
	ErrMissingIdentity     = errors.New("missing identity")
)

// ConflictError reports the approved events whose time window intersects the
// candidate window. Stage tells whether it was raised at submission (soft
// warning, caller may resubmit confirmed) or approval (blocking confirmation).
type ConflictError struct {
	Stage     string
	Conflicts []Event
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s overlaps %d approved event(s): %s",
		e.Stage, len(e.Conflicts), strings.Join(e.Titles(), ", "))
}

func (e *ConflictError) Titles() []string {
	titles := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		titles[i] = c.Title
	}

	return titles
}

// ValidationError marks a rejected submission input; nothing was persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

type Error struct {
	Message string   `json:"message,omitempty"`
	Err     []string `json:"err,omitempty"`
}

func NewError(message string, errs ...error) *Error {
	return &Error{
		Message: message,
		Err: func() []string {
			var msgs []string

			for _, err := range errs {
				if err != nil {
					msgs = append(msgs, err.Error())
				}
			}

			return msgs
		}(),
	}
}

func (e *Error) Error() string {
	//nolint:errchkjson
	data, _ := json.Marshal(e)
	return string(data)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	if len(e.Err) == 0 {
		return nil
	}

	errs := make([]error, len(e.Err))
	for i, err := range e.Err {
		errs[i] = fmt.Errorf("%s", err)
	}

	return errors.Join(errs...)
}

func (e *Error) Messages() []string {
	return e.Err
}
