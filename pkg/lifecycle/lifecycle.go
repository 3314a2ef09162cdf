package lifecycle

import (
	"fmt"

	pkgerrors "github.com/garzamfg/shopfloor-backend/pkg/errors"
)

// Status is the production lifecycle shared by manufacturing orders and
// production cards. Both entities move through the same machine:
//
//	pending --start--> in_progress <--pause/resume--> paused
//	in_progress|paused --complete--> completed
//	pending|in_progress|paused --cancel--> cancelled
//
// completed and cancelled are terminal; no transition or field mutation is
// permitted once either is reached.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var validStatuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusPaused,
	StatusCompleted,
	StatusCancelled,
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Status.
func (s Status) IsValid() bool {
	for _, candidate := range validStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status freezes the entity.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsActive reports whether the entity still counts toward the active queue.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusPaused
}

// ParseStatus converts raw input into a Status.
func ParseStatus(value string) (Status, error) {
	for _, candidate := range validStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lifecycle status %q", value)
}

// EnsureStart guards the pending -> in_progress transition.
func EnsureStart(entity string, current Status) error {
	if current != StatusPending {
		return transitionError(entity, current, "started", "only pending %s can be started")
	}
	return nil
}

// EnsurePause guards the in_progress -> paused transition.
func EnsurePause(entity string, current Status) error {
	if current != StatusInProgress {
		return transitionError(entity, current, "paused", "only an in-progress %s can be paused")
	}
	return nil
}

// EnsureResume guards the paused -> in_progress transition.
func EnsureResume(entity string, current Status) error {
	if current != StatusPaused {
		return transitionError(entity, current, "resumed", "only a paused %s can be resumed")
	}
	return nil
}

// EnsureComplete guards the in_progress|paused -> completed transition.
func EnsureComplete(entity string, current Status) error {
	if current != StatusInProgress && current != StatusPaused {
		return transitionError(entity, current, "completed", "%s must be in progress or paused to complete")
	}
	return nil
}

// EnsureCancel guards the cancel transition. Cancelling an already cancelled
// entity fails; repeat cancels are not idempotent.
func EnsureCancel(entity string, current Status) error {
	if current.IsTerminal() {
		return transitionError(entity, current, "cancelled", "%s is already closed")
	}
	return nil
}

// EnsureMutable rejects any field mutation on a terminal entity.
func EnsureMutable(entity string, current Status) error {
	if current.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("%s is %s and can no longer be modified", entity, current)).
			WithDetails(map[string]any{"status": current.String()})
	}
	return nil
}

func transitionError(entity string, current Status, verb, format string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf(format, entity)).
		WithDetails(map[string]any{
			"status":     current.String(),
			"transition": verb,
		})
}
