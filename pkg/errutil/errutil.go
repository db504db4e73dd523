// Package errutil provides common error utilities.
package errutil

import "strings"

// Multi combines multiple errors into one. Nil arguments are discarded; zero
// remaining errors yield nil, a single one is returned as is, and several are
// combined into an error whose message lists all of them. Errors previously
// returned by Multi are flattened, so Multi(Multi(a, b), c) and
// Multi(a, b, c) are equivalent.
func Multi(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		switch err := err.(type) {
		case nil:
		case multiError:
			nonNil = append(nonNil, err...)
		default:
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return multiError(nonNil)
	}
}

// Append accumulates err into acc, flattening as in [Multi]. It is a
// convenience for loops that collect per-item errors.
func Append(acc, err error) error {
	return Multi(acc, err)
}

// Errors returns the individual errors combined in err: the combined errors
// for an error built by [Multi], a one-element slice for any other non-nil
// error, and nil for nil.
func Errors(err error) []error {
	switch err := err.(type) {
	case nil:
		return nil
	case multiError:
		return err
	default:
		return []error{err}
	}
}

type multiError []error

func (me multiError) Error() string {
	var sb strings.Builder
	sb.WriteString("multiple errors: ")
	for i, e := range me {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}
