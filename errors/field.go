package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field wraps err as the error of a single message or model field. It
// returns nil if err is nil.
//
// Field names follow Go naming. Nested fields use dot notation
// (Escrow.Vault) and list elements their index (Accounts.0.Owner).
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	// The stack is attached once, at the innermost wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField appends the error of a field, if any, to errorsOrNil.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

func (err *fieldError) Cause() error {
	return err.parent
}

func (err *fieldError) Field() string {
	return err.field
}

type fielder interface {
	Field() string
}

// FieldErrors returns all errors created for fieldName within err. The
// search follows wrapped and appended errors and stops at the outermost
// match on each branch.
func FieldErrors(err error, fieldName string) []error {
	if isNilErr(err) {
		return nil
	}
	if f, ok := err.(fielder); ok && f.Field() == fieldName {
		return []error{err}
	}
	// Unpack returns every child, so the cause needs no separate visit.
	if u, ok := err.(unpacker); ok {
		var res []error
		for _, e := range u.Unpack() {
			res = append(res, FieldErrors(e, fieldName)...)
		}
		return res
	}
	if c, ok := err.(causer); ok {
		return FieldErrors(c.Cause(), fieldName)
	}
	return nil
}
