// Package must contains helpers that panic on errors.
//
// Use it in tests and in places where an error is provably impossible.
package must

// OK panics if err is not nil.
func OK(err error) {
	if err != nil {
		panic(err)
	}
}

// OK1 panics if err is not nil and otherwise returns v.
func OK1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
