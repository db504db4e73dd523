// Package tt supports table-driven tests with little boilerplate.
//
// A test builds a [Table] of cases with [Args] and Rets, then runs the
// function under test against it with [Test]. Expected return values may
// implement [Matcher] to customize matching; everything else is compared
// with reflect.DeepEqual, and mismatches are reported with a go-cmp diff
// when one can be computed.
package tt

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Table is a list of test cases.
type Table []*Case

// Case is one test case: arguments plus expected return values.
type Case struct {
	args     []any
	wantRets []any
}

// Args starts a new case with the given arguments.
func Args(args ...any) *Case { return &Case{args: args} }

// Rets sets the expected return values and returns the case, so calls chain
// as Args(...).Rets(...).
func (c *Case) Rets(rets ...any) *Case {
	c.wantRets = rets
	return c
}

// Matcher lets an expected value customize how it matches the actual return
// value.
type Matcher interface {
	Match(got any) bool
}

// Any matches any value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(any) bool { return true }

// T is the subset of testing.T needed by Test. It is an interface so that
// this package can test its own failure reporting.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test calls fn, which must be a function, with the arguments of each case
// and checks the returns against the case's expectations. name is used in
// failure messages.
func Test(t T, name string, fn any, tests Table) {
	t.Helper()
	for _, c := range tests {
		rets := call(fn, c.args)
		if len(rets) != len(c.wantRets) {
			t.Errorf("%s(%s) returned %d values, want %d",
				name, sprintList(c.args), len(rets), len(c.wantRets))
			continue
		}
		for i, want := range c.wantRets {
			if !matchOne(want, rets[i]) {
				t.Errorf("%s(%s) -> return %d mismatch:\n%s",
					name, sprintList(c.args), i, describe(want, rets[i]))
			}
		}
	}
}

func matchOne(want, got any) bool {
	if m, ok := want.(Matcher); ok {
		return m.Match(got)
	}
	return reflect.DeepEqual(want, got)
}

// describe renders a mismatch, preferring a go-cmp diff. cmp panics on types
// it cannot handle (functions, unexported fields without options), in which
// case fall back to plain formatting.
func describe(want, got any) (desc string) {
	defer func() {
		if recover() != nil {
			desc = fmt.Sprintf("got  %v\nwant %v", got, want)
		}
	}()
	return "(-want +got)\n" + cmp.Diff(want, got)
}

func sprintList(vs []any) string {
	var sb strings.Builder
	for i, v := range vs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, v)
	}
	return sb.String()
}

func call(fn any, args []any) []any {
	fv := reflect.ValueOf(fn)
	argsv := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			// reflect.ValueOf(nil) is the zero Value; use the parameter type
			// to build a usable nil instead.
			argsv[i] = reflect.Zero(fv.Type().In(i))
		} else {
			argsv[i] = reflect.ValueOf(arg)
		}
	}
	retsv := fv.Call(argsv)
	rets := make([]any, len(retsv))
	for i, ret := range retsv {
		rets[i] = ret.Interface()
	}
	return rets
}
