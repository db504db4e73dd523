package comp_test

import (
	"strconv"
	"testing"

	"src.tether.dev/pkg/comp"
	"src.tether.dev/pkg/must"
	"src.tether.dev/pkg/notify"
	"src.tether.dev/pkg/store"
)

// settingsModel persists X and derives nothing else; Secret opts out of
// persistence by reporting ok=false.
type settingsModel struct {
	notify.Notifier
	X      notify.Prop[int]
	Secret notify.Prop[string]
}

func newSettingsModel() *settingsModel {
	m := &settingsModel{}
	m.X = notify.NewProp(&m.Notifier, "X", 0)
	m.Secret = notify.NewProp(&m.Notifier, "Secret", "")
	return m
}

func (m *settingsModel) GetString(name string) (string, bool) {
	if name == "X" {
		return strconv.Itoa(m.X.Get()), true
	}
	return "", false
}

func (m *settingsModel) SetString(name, value string) bool {
	if name != "X" {
		return false
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return false
	}
	m.X.Set(v)
	return true
}

func TestPersistAndRestore(t *testing.T) {
	st, cleanup := store.MustTempStore()
	defer cleanup()

	m1 := newSettingsModel()
	stop := comp.PersistOnChange(st, "settings", m1, func(err error) { t.Error(err) })
	m1.X.Set(7)
	m1.Secret.Set("hunter2") // not persisted
	stop()
	m1.X.Set(9) // after stop; not persisted

	m2 := newSettingsModel()
	must.OK(comp.Restore(st, "settings", m2, []string{"X", "Secret"}))
	if m2.X.Get() != 7 {
		t.Errorf("restored X = %d, want 7", m2.X.Get())
	}
	if m2.Secret.Get() != "" {
		t.Errorf("Secret restored to %q, want empty", m2.Secret.Get())
	}
}

func TestRestore_MissingValuesKeepInitialState(t *testing.T) {
	st, cleanup := store.MustTempStore()
	defer cleanup()

	m := newSettingsModel()
	m.X.Set(3)
	must.OK(comp.Restore(st, "settings", m, []string{"X"}))
	if m.X.Get() != 3 {
		t.Errorf("X = %d after restoring from an empty store, want 3", m.X.Get())
	}
}
