package rec

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeSchemaMismatch indicates a record or predicate names fields that
	// don't match the table's declared columns. Always a caller bug.
	ErrCodeSchemaMismatch ErrorCode = "SCHEMA_MISMATCH"

	// ErrCodeDecodeError indicates stored bytes failed to decode under the
	// configured mode and secret: data corruption or a wrong secret.
	ErrCodeDecodeError ErrorCode = "DECODE_ERROR"

	// ErrCodeStorageError indicates an engine-level failure (constraint
	// violation, I/O failure). Surfaced with the engine detail, never retried.
	ErrCodeStorageError ErrorCode = "STORAGE_ERROR"

	// ErrCodeInvalidPredicate indicates an empty predicate on
	// fetch/update/remove, rejected before any engine access.
	ErrCodeInvalidPredicate ErrorCode = "INVALID_PREDICATE"
)

// StoreError is the error type surfaced by every store operation.
//
// The store performs no automatic retry: each error reaches the caller
// synchronously, wrapping the underlying engine or codec error where one
// exists.
type StoreError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Table names the affected table, when known.
	Table string

	// Field names the offending field (for schema mismatches).
	Field string

	// Op is the operation token of the failed call, when minted.
	Op string

	// Applied counts rows already written before a mid-sequence failure of a
	// multi-row update or remove. Multi-row mutations are not atomic across
	// rows.
	Applied int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	var where string
	switch {
	case e.Table != "" && e.Field != "":
		where = fmt.Sprintf(" (table=%s, field=%s)", e.Table, e.Field)
	case e.Table != "":
		where = fmt.Sprintf(" (table=%s)", e.Table)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s%s: %v", e.Code, e.Message, where, e.Err)
	}
	return fmt.Sprintf("%s: %s%s", e.Code, e.Message, where)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewSchemaMismatch creates a StoreError for a record/predicate whose field
// set doesn't match the table's columns.
func NewSchemaMismatch(table, field, message string) *StoreError {
	return &StoreError{
		Code:    ErrCodeSchemaMismatch,
		Message: message,
		Table:   table,
		Field:   field,
	}
}

// NewDecodeError creates a StoreError for a stored value that failed to
// decode under the configured mode and secret.
func NewDecodeError(message string, err error) *StoreError {
	return &StoreError{
		Code:    ErrCodeDecodeError,
		Message: message,
		Err:     err,
	}
}

// NewStorageError wraps an engine-level failure.
func NewStorageError(table, message string, err error) *StoreError {
	return &StoreError{
		Code:    ErrCodeStorageError,
		Message: message,
		Table:   table,
		Err:     err,
	}
}

// NewInvalidPredicate creates a StoreError for an empty predicate.
func NewInvalidPredicate(message string) *StoreError {
	return &StoreError{
		Code:    ErrCodeInvalidPredicate,
		Message: message,
	}
}

// IsSchemaMismatch reports whether err is a SCHEMA_MISMATCH error.
// Uses errors.As to handle wrapped errors.
func IsSchemaMismatch(err error) bool { return hasCode(err, ErrCodeSchemaMismatch) }

// IsDecodeError reports whether err is a DECODE_ERROR error.
func IsDecodeError(err error) bool { return hasCode(err, ErrCodeDecodeError) }

// IsStorageError reports whether err is a STORAGE_ERROR error.
func IsStorageError(err error) bool { return hasCode(err, ErrCodeStorageError) }

// IsInvalidPredicate reports whether err is an INVALID_PREDICATE error.
func IsInvalidPredicate(err error) bool { return hasCode(err, ErrCodeInvalidPredicate) }

func hasCode(err error, code ErrorCode) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
