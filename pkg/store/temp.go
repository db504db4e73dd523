package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// MustTempStore returns a Store backed by a file in a fresh temporary
// directory, and a cleanup function to call when the store is no longer
// needed. It panics on setup errors and is intended for tests.
func MustTempStore() (Store, func()) {
	dir, err := os.MkdirTemp("", "tether-store-test")
	if err != nil {
		panic(fmt.Sprintf("create temp dir: %v", err))
	}
	st, err := Open(filepath.Join(dir, "state.db"))
	if err != nil {
		os.RemoveAll(dir)
		panic(fmt.Sprintf("open temp store: %v", err))
	}
	return st, func() {
		st.Close()
		if err := os.RemoveAll(dir); err != nil {
			fmt.Fprintln(os.Stderr, "failed to remove temp store:", err)
		}
	}
}
