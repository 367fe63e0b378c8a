package services

import "fmt"

// ValidationError reports missing or out-of-range input. It is surfaced to
// the caller as-is and never follows a state mutation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// CapacityError is the validation failure for an assignment that would push a
// driver past their seat capacity.
type CapacityError struct {
	DriverID   uint
	SeatsAsked int
	SeatsFree  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("cannot assign rider: would exceed driver's capacity (%d seats needed, %d available)",
		e.SeatsAsked, e.SeatsFree)
}

// NotFoundError reports a referenced driver or rider id that does not exist.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// PersistenceError wraps a store read/write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
