package recurrence

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSchedule matches every *InvalidScheduleError via errors.Is
	ErrInvalidSchedule = errors.New("recurrence: invalid schedule")

	// ErrCustomStepRequired custom frequency was requested without a step function
	ErrCustomStepRequired = errors.New("recurrence: custom frequency requires a step function")

	// ErrNonexistentLocalTime the time of day falls into a DST gap and GapReject is set
	ErrNonexistentLocalTime = errors.New("recurrence: local time does not exist on this date")

	// ErrStepNotAdvancing a custom step function produced a date that is not after the previous one
	ErrStepNotAdvancing = errors.New("recurrence: step function must advance the date")
)

// InvalidScheduleError describes which part of a schedule could not be used
type InvalidScheduleError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *InvalidScheduleError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("recurrence: invalid schedule: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("recurrence: invalid schedule: %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidScheduleError) Is(target error) bool {
	return target == ErrInvalidSchedule
}

func (e *InvalidScheduleError) Unwrap() error {
	return e.Err
}

func invalid(field, value, reason string) *InvalidScheduleError {
	return &InvalidScheduleError{Field: field, Value: value, Reason: reason}
}
