package model

import (
	"errors"
	"fmt"
)

// Failure classes. Concrete errors below match them through errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrRemote            = errors.New("remote error")
	ErrPartialCreation   = errors.New("partial creation")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotFound          = errors.New("not found")
	ErrNotification      = errors.New("notification failure")
)

// InvalidInputError is a local validation failure. No remote call was made.
type InvalidInputError struct {
	Field  string
	Reason string
}

func InvalidInput(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// RemoteError reports a failed call to the forms provider.
// Inserted counts the items already added to FormID before the failure.
type RemoteError struct {
	Call     string
	FormID   string
	Position int
	Inserted int
	Err      error
}

// Partial reports whether the remote form was left partially populated.
func (e *RemoteError) Partial() bool {
	return e.Inserted > 0
}

func (e *RemoteError) Error() string {
	switch {
	case e.Partial():
		return fmt.Sprintf("partial creation: %s at position %d failed on form %s after %d item(s): %v",
			e.Call, e.Position, e.FormID, e.Inserted, e.Err)
	case e.FormID != "":
		return fmt.Sprintf("remote error: %s at position %d failed on form %s: %v", e.Call, e.Position, e.FormID, e.Err)
	default:
		return fmt.Sprintf("remote error: %s failed: %v", e.Call, e.Err)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote || (target == ErrPartialCreation && e.Partial())
}

type TransitionError struct {
	ID   int64
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: survey %d cannot move from %s to %s", e.ID, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("survey %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotificationError is a delivery failure. It never undoes a status transition.
type NotificationError struct {
	Recipient string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification to %s failed: %v", e.Recipient, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

func (e *NotificationError) Is(target error) bool {
	return target == ErrNotification
}
