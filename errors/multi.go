package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no error is provided or all provided errors are nil, nil is returned.
// If exactly one error is not nil, it is returned as it is.
// Otherwise a multi error is returned that behaves like all of the errors it
// contains when tested with Is.
func Append(errs ...error) error {
	var res multiErr
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		if m, ok := err.(*multiErr); ok {
			res.errors = append(res.errors, m.errors...)
		} else {
			res.errors = append(res.errors, err)
		}
	}
	switch len(res.errors) {
	case 0:
		return nil
	case 1:
		return res.errors[0]
	default:
		return &res
	}
}

type multiErr struct {
	errors []error
}

func (m *multiErr) Error() string {
	points := make([]string, len(m.errors))
	for i, err := range m.errors {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m.errors), strings.Join(points, "\n\t"))
}

// Unpack returns all contained errors.
func (m *multiErr) Unpack() []error {
	return m.errors
}

// ABCICode returns the code of the first error consistent with the fail
// fast approach.
func (m *multiErr) ABCICode() uint32 {
	return abciCode(m.errors[0])
}

type unpacker interface {
	Unpack() []error
}
