package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FieldViolation describes a single field-level rule violation,
// as produced by entity constructors and request validators.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InvalidArgumentError indicates malformed or out-of-range input,
// including entity-construction invariant violations. It carries the
// offending field name so adapters can produce an actionable message.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s %s", e.Field, e.Reason)
}

// NewInvalidArgument creates an InvalidArgumentError for the given field.
func NewInvalidArgument(field string, reason string) InvalidArgumentError {
	return InvalidArgumentError{Field: field, Reason: reason}
}

// ValidationFailedError aggregates every rule violation reported by the
// validation pipeline stage for a single request. The violation order is
// deterministic: validators in registration order, rules in declaration order.
type ValidationFailedError struct {
	Violations []FieldViolation
}

func (e ValidationFailedError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError indicates that a referenced entity id does not exist.
// Entity names the entity kind ("Book", "User", "Loan").
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s was not found", e.Entity, e.ID)
}

// NewNotFound creates a NotFoundError for the given entity kind and id.
func NewNotFound(entity string, id uuid.UUID) NotFoundError {
	return NotFoundError{Entity: entity, ID: id}
}

// ConflictError indicates that the user already has an active loan
// for the requested book.
type ConflictError struct {
	UserID uuid.UUID
	BookID uuid.UUID
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("user %s already has an active loan for book %s", e.UserID, e.BookID)
}

// AlreadyReturnedError indicates an attempt to return a loan that is
// already in its terminal Returned state.
type AlreadyReturnedError struct {
	LoanID uuid.UUID
}

func (e AlreadyReturnedError) Error() string {
	return fmt.Sprintf("loan %s has already been returned", e.LoanID)
}

// InternalError wraps an unexpected, unclassified failure from a
// collaborator. The cause is preserved for logs but adapters must not
// leak it to callers.
type InternalError struct {
	Cause error
}

func (e InternalError) Error() string {
	return "internal error: " + e.Cause.Error()
}

func (e InternalError) Unwrap() error {
	return e.Cause
}

// WrapInternal classifies err as Internal unless it already belongs to
// the taxonomy, in which case it is returned unchanged.
func WrapInternal(err error) error {
	if err == nil {
		return nil
	}

	if IsInvalidArgument(err) || IsValidationFailed(err) || IsNotFound(err) ||
		IsConflict(err) || IsAlreadyReturned(err) || IsInternal(err) {
		return err
	}

	return InternalError{Cause: err}
}

/*** Predicate helpers for adapters and tests ***/

// IsInvalidArgument reports whether err is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var target InvalidArgumentError
	return errors.As(err, &target)
}

// IsValidationFailed reports whether err is a ValidationFailedError.
func IsValidationFailed(err error) bool {
	var target ValidationFailedError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

// IsAlreadyReturned reports whether err is an AlreadyReturnedError.
func IsAlreadyReturned(err error) bool {
	var target AlreadyReturnedError
	return errors.As(err, &target)
}

// IsInternal reports whether err is an InternalError.
func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
