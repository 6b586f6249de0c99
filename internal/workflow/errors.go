package workflow

import (
	"errors"
	"fmt"
)

// Error represents a failure during a service-request transition or an
// interactive registry operation.
//
// The four codes map to how the enclosing loop recovers:
//   - Input: malformed or out-of-range operator input; aborts the current
//     operation (re-prompting happens only at the documented prompt points,
//     before an Error is ever constructed).
//   - Lookup: an expected entity was not found; aborts the step that
//     needed it.
//   - Allocation/Storage: collaborator failure; aborts the whole
//     invocation. Writes committed before the failure stay committed.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// ErrorCode categorizes workflow errors.
type ErrorCode string

const (
	// ErrCodeInput indicates malformed or out-of-range operator input.
	ErrCodeInput ErrorCode = "INPUT_ERROR"

	// ErrCodeLookup indicates an expected entity was not found.
	ErrCodeLookup ErrorCode = "LOOKUP_ERROR"

	// ErrCodeAllocation indicates identifier allocation failed.
	ErrCodeAllocation ErrorCode = "ALLOCATION_ERROR"

	// ErrCodeStorage indicates the storage collaborator failed.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the ErrorCode from err, or "" if err is not a workflow
// Error. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var we *Error
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}

// IsInputError reports whether err carries ErrCodeInput.
func IsInputError(err error) bool { return CodeOf(err) == ErrCodeInput }

// IsLookupError reports whether err carries ErrCodeLookup.
func IsLookupError(err error) bool { return CodeOf(err) == ErrCodeLookup }

func inputErrorf(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInput, Message: fmt.Sprintf(format, args...)}
}

func lookupErrorf(format string, args ...any) *Error {
	return &Error{Code: ErrCodeLookup, Message: fmt.Sprintf(format, args...)}
}

func allocationError(err error) *Error {
	return &Error{Code: ErrCodeAllocation, Message: "id allocation failed", Err: err}
}

func storageError(msg string, err error) *Error {
	return &Error{Code: ErrCodeStorage, Message: msg, Err: err}
}
