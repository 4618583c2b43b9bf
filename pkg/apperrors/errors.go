package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrColumnNotFound = errors.New("column not found")
	ErrIO             = errors.New("io failure")
)

// ValidationError reports a contract violation on arguments: missing
// required columns, a missing target column or an unknown encoding method.
type ValidationError struct {
	Op      string
	Msg     string
	Missing []string
	Err     error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": [%s]", strings.Join(e.Missing, ", "))
	}
	return b.String()
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// Validation builds a ValidationError with a formatted message.
func Validation(op, format string, args ...any) *ValidationError {
	return &ValidationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ColumnNotFoundError reports a reference to a column the table does not have.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }

// IOError wraps a failure to parse or produce a file. Errors raised by the
// operating system itself are returned as they are and never wrapped here.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Is(target error) bool { return target == ErrIO }

func (e *IOError) Unwrap() error { return e.Err }
