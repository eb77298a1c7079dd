package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a roster error code.
type ErrorCode string

const (
	ErrMissingHeader    ErrorCode = "MISSING_HEADER"     // 422
	ErrMissingIDField   ErrorCode = "MISSING_ID_FIELD"   // 422
	ErrDuplicateIDField ErrorCode = "DUPLICATE_ID_FIELD" // 422
	ErrRowWidth         ErrorCode = "ROW_WIDTH"          // 422
	ErrUnknownID        ErrorCode = "UNKNOWN_ID"         // 404
	ErrUnknownField     ErrorCode = "UNKNOWN_FIELD"      // 404
	ErrUnknownAction    ErrorCode = "UNKNOWN_ACTION"     // 400
	ErrInvalidReference ErrorCode = "INVALID_REFERENCE"  // 422
	ErrDuplicateID      ErrorCode = "DUPLICATE_ID"       // 409
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"    // 400
	ErrIO               ErrorCode = "IO"                 // 500
	ErrInternal         ErrorCode = "INTERNAL"           // 500
)

// RosterError represents a structured error with code, status, and details.
type RosterError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *RosterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *RosterError) Unwrap() error {
	return e.Err
}

// NewMissingHeader creates an error for a table source with no header line.
func NewMissingHeader(table string) *RosterError {
	return &RosterError{
		Code:    ErrMissingHeader,
		Status:  422,
		Message: fmt.Sprintf("table %s has no header line", table),
		Details: map[string]any{"table": table},
	}
}

// NewMissingIDField creates an error for a header with no (id) field.
func NewMissingIDField() *RosterError {
	return &RosterError{
		Code:    ErrMissingIDField,
		Status:  422,
		Message: "header has no (id) field",
	}
}

// NewDuplicateIDField creates an error for a header with more than one (id) field.
func NewDuplicateIDField(names []string) *RosterError {
	return &RosterError{
		Code:    ErrDuplicateIDField,
		Status:  422,
		Message: fmt.Sprintf("header has %d (id) fields: %s", len(names), strings.Join(names, ", ")),
		Details: map[string]any{"fields": names},
	}
}

// NewRowWidth creates an error for a row whose cell count differs from the header.
func NewRowWidth(rowIndex, want, got int) *RosterError {
	return &RosterError{
		Code:    ErrRowWidth,
		Status:  422,
		Message: fmt.Sprintf("row %d has %d values, header has %d fields", rowIndex, got, want),
		Details: map[string]any{"row_index": rowIndex, "want": want, "got": got},
	}
}

// NewUnknownID creates a 404 error for an id with no matching row.
func NewUnknownID(id string) *RosterError {
	return &RosterError{
		Code:    ErrUnknownID,
		Status:  404,
		Message: fmt.Sprintf("no row with id %q", id),
		Details: map[string]any{"id": id},
	}
}

// NewUnknownField creates a 404 error for a field name not in the header.
// The message lists every valid field name.
func NewUnknownField(name string, valid []string) *RosterError {
	return &RosterError{
		Code:    ErrUnknownField,
		Status:  404,
		Message: fmt.Sprintf("unknown field %q (valid fields: %s)", name, strings.Join(valid, ", ")),
		Details: map[string]any{"field": name, "valid_fields": valid},
	}
}

// NewUnknownAction creates a 400 error for an update action token other than add/remove.
func NewUnknownAction(token string) *RosterError {
	return &RosterError{
		Code:    ErrUnknownAction,
		Status:  400,
		Message: fmt.Sprintf("unknown action %q (expected add or remove)", token),
		Details: map[string]any{"token": token},
	}
}

// NewInvalidReference creates an error for a reference value missing from the referenced table.
func NewInvalidReference(table string, rowIndex int, field, value string) *RosterError {
	return &RosterError{
		Code:    ErrInvalidReference,
		Status:  422,
		Message: fmt.Sprintf("%s row %d: field %q references unknown id %q", table, rowIndex, field, value),
		Details: map[string]any{"table": table, "row_index": rowIndex, "field": field, "value": value},
	}
}

// NewDuplicateID creates a 409 error when adding a row whose id already exists.
func NewDuplicateID(table, id string) *RosterError {
	return &RosterError{
		Code:    ErrDuplicateID,
		Status:  409,
		Message: fmt.Sprintf("%s already has a row with id %q", table, id),
		Details: map[string]any{"table": table, "id": id},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *RosterError {
	return &RosterError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewIO wraps a storage failure for the given path.
func NewIO(op, path string, err error) *RosterError {
	msg := fmt.Sprintf("%s %s failed", op, path)
	if err != nil {
		msg = fmt.Sprintf("%s %s: %v", op, path, err)
	}
	return &RosterError{
		Code:    ErrIO,
		Status:  500,
		Message: msg,
		Details: map[string]any{"op": op, "path": path},
		Err:     err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *RosterError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &RosterError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// Is checks if an error is a RosterError with the given code.
func Is(err error, code ErrorCode) bool {
	if rErr, ok := err.(*RosterError); ok {
		return rErr.Code == code
	}
	return false
}
