package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinels for errors.Is checks across the taxonomy.
var (
	ErrValidation = stderrors.New("validation failed")
	ErrConflict   = stderrors.New("conflict")
	ErrNotFound   = stderrors.New("not found")
	ErrTransient  = stderrors.New("store unavailable")
)

// ValidationError reports malformed or missing input. It is produced before
// any store call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError reports a duplicate value for a unique field.
type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NotFoundError reports an operation on an id that does not exist.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// TransientStoreError wraps a persistence failure unrelated to input
// correctness, such as an unreachable database.
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error { return e.Err }

func (e *TransientStoreError) Is(target error) bool { return target == ErrTransient }

func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func Conflict(entity, field, value string) error {
	return &ConflictError{Entity: entity, Field: field, Value: value}
}

func NotFound(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Transient wraps err unless it is nil or already classified.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, ErrNotFound) || stderrors.Is(err, ErrConflict) ||
		stderrors.Is(err, ErrValidation) || stderrors.Is(err, ErrTransient) {
		return err
	}
	return &TransientStoreError{Op: op, Err: err}
}

// Is and As re-export the standard library helpers so callers importing this
// package under its own name need not import both.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }
