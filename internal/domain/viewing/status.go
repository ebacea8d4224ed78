package viewing

import "github.com/BruksfildServices01/estate-viewings/internal/httperr"

// ===============================
// Viewing Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ActiveStatuses hold the broker's time and count against capacity.
var ActiveStatuses = []string{
	string(StatusScheduled),
	string(StatusConfirmed),
}

func (s Status) IsActive() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// ===============================
// Transitions
// ===============================

func CanConfirm(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusinessf(CodeInvalidState, "viewing is %s and cannot be confirmed", current)
	}
	return nil
}

func CanCancel(current Status) error {
	if !current.IsActive() {
		return httperr.ErrBusinessf(CodeInvalidState, "viewing is %s and cannot be cancelled", current)
	}
	return nil
}

func CanComplete(current Status) error {
	if !current.IsActive() {
		return httperr.ErrBusinessf(CodeInvalidState, "viewing is %s and cannot be completed", current)
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
