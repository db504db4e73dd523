package comp

import (
	"errors"
	"fmt"

	"src.tether.dev/pkg/errutil"
	"src.tether.dev/pkg/notify"
	"src.tether.dev/pkg/store"
)

// StateModel is implemented by models that opt in to state persistence. The
// string encoding of each property is the model's own business; properties
// that should not persist report ok=false from GetString.
type StateModel interface {
	ChangeNotifier() *notify.Notifier
	GetString(name string) (value string, ok bool)
	SetString(name, value string) bool
}

// Restore loads persisted values for the named properties into m, typically
// right after InitModel. Properties with no stored value are left at their
// initial state. Store errors other than missing values are collected and
// returned; restoration still proceeds to the remaining properties.
func Restore(st store.Store, component string, m StateModel, props []string) error {
	var errs error
	for _, p := range props {
		v, err := st.Get(component, p)
		if errors.Is(err, store.ErrNoValue) {
			continue
		}
		if err != nil {
			errs = errutil.Append(errs, fmt.Errorf("restore %s of %s: %w", p, component, err))
			continue
		}
		m.SetString(p, v)
	}
	return errs
}

// PersistOnChange writes every subsequent property change of m through to
// the store. Write failures go to onError when it is non-nil and are
// otherwise discarded; persistence is best-effort by design. The returned
// function stops the write-through.
func PersistOnChange(st store.Store, component string, m StateModel, onError func(error)) (stop func()) {
	return m.ChangeNotifier().Subscribe(func(name string) {
		v, ok := m.GetString(name)
		if !ok {
			return
		}
		if err := st.Set(component, name, v); err != nil && onError != nil {
			onError(fmt.Errorf("persist %s of %s: %w", name, component, err))
		}
	})
}
