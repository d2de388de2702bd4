package junction

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions in the intersection core
type ErrorCode int

const (
	// ErrCodeNone means no error occurred
	ErrCodeNone ErrorCode = iota
	// ErrCodeDuplicateID means an intersection id is already registered
	ErrCodeDuplicateID
	// ErrCodeNotFound means no intersection exists for the given id
	ErrCodeNotFound
	// ErrCodeConflict means a green transition would violate mutual exclusion
	ErrCodeConflict
	// ErrCodeInvalidConfiguration means a timing value is not strictly positive
	ErrCodeInvalidConfiguration
	// ErrCodeInvalidOperation means a mode transition precondition failed
	ErrCodeInvalidOperation
)

// Error is the error type returned by the intersection core. The code
// classifies the failure; the id names the intersection involved when known.
type Error struct {
	Code           ErrorCode
	IntersectionID string
	Message        string
}

func (e *Error) Error() string {
	if e.IntersectionID != "" {
		return fmt.Sprintf("intersection %s: %s", e.IntersectionID, e.Message)
	}
	return e.Message
}

// NewDuplicateIDError creates an error for creating an already-registered id
func NewDuplicateIDError(id string) *Error {
	return &Error{
		Code:           ErrCodeDuplicateID,
		IntersectionID: id,
		Message:        fmt.Sprintf("intersection with id '%s' already exists", id),
	}
}

// NewNotFoundError creates an error for operating on an unknown id
func NewNotFoundError(id string) *Error {
	return &Error{
		Code:           ErrCodeNotFound,
		IntersectionID: id,
		Message:        fmt.Sprintf("intersection with id '%s' not found", id),
	}
}

// NewConflictError creates an error for a green transition that would put
// two conflicting directions on green at once.
func NewConflictError(id string, direction, conflicting Direction) *Error {
	return &Error{
		Code:           ErrCodeConflict,
		IntersectionID: id,
		Message: fmt.Sprintf("cannot set %s to GREEN: conflicting direction %s is already GREEN",
			direction, conflicting),
	}
}

// NewInvalidConfigurationError creates an error for a bad timing value
func NewInvalidConfigurationError(message string) *Error {
	return &Error{
		Code:    ErrCodeInvalidConfiguration,
		Message: message,
	}
}

// NewInvalidOperationError creates an error for a mode transition whose
// precondition does not hold.
func NewInvalidOperationError(id, message string) *Error {
	return &Error{
		Code:           ErrCodeInvalidOperation,
		IntersectionID: id,
		Message:        message,
	}
}

// CodeOf extracts the error code from err, or ErrCodeNone if err is not a
// core Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeNone
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}
