package integrity

import (
	"errors"
	"fmt"

	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

// ValidationError reports a mutation rejected before anything was written:
// a malformed value, a dangling reference, or a broken hierarchy, currency
// or emptiness rule.
type ValidationError struct {
	Kind   schema.Kind
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s", e.Kind)
	if e.Field != "" {
		msg += "." + e.Field
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ConstraintError reports a delete or update blocked by rows that must not
// be cascaded, or by a row the store protects.
type ConstraintError struct {
	Kind schema.Kind
	ID   int64
	// Dependent and Field name the blocking reference; both are empty when
	// the row itself is protected.
	Dependent schema.Kind
	Field     string
	Count     int
	Reason    string
}

func (e *ConstraintError) Error() string {
	if e.Dependent != 0 {
		return fmt.Sprintf("%s %d is referenced by %d %s row(s) through %s", e.Kind, e.ID, e.Count, e.Dependent, e.Field)
	}
	return fmt.Sprintf("%s %d: %s", e.Kind, e.ID, e.Reason)
}

// NotFoundError reports an operation on a row id that does not exist.
type NotFoundError struct {
	Kind schema.Kind
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConstraint reports whether err is, or wraps, a ConstraintError.
func IsConstraint(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func invalid(k schema.Kind, field, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: k, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func protected(k schema.Kind, id int64, reason string) *ConstraintError {
	return &ConstraintError{Kind: k, ID: id, Reason: reason}
}
