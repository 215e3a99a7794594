package schedule

import "github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var allStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusScheduled,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// ===============================
// Validations
// ===============================

// ParseStatus validates a raw status value against the fixed enum.
func ParseStatus(raw string) (Status, error) {
	for _, s := range allStatuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition defines whether an appointment may move to a new status.
func CanTransition(current, next Status) error {
	if current.IsTerminal() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanReschedule defines whether an appointment may still be moved.
func CanReschedule(current Status) error {
	if current.IsTerminal() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// InitialStatus is the status given to newly booked appointments.
func InitialStatus() Status {
	return StatusScheduled
}
