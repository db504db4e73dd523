// Package notify implements the change-notification capability models must
// expose.
//
// A model embeds a [Notifier] and declares its observable state as [Prop]
// fields. Setting a Prop runs every subscribed callback synchronously with
// the property name, which is what drives re-evaluation of installed
// bindings. There is no reflection and no proxy generation; a Prop is just a
// getter/setter pair around an ordinary field.
package notify

import "sync"

// Notifier fans property-change notifications out to subscribers.
//
// The zero value is ready to use. Callbacks run synchronously on the
// goroutine that changed the property, so they must cross into the dispatch
// context themselves if they need it.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(name string)
}

// ChangeNotifier returns n itself, so that a model embedding a Notifier
// satisfies interfaces asking for its notifier without extra boilerplate.
func (n *Notifier) ChangeNotifier() *Notifier { return n }

// Subscribe registers a callback invoked with the name of every property that
// changes. The returned function removes the subscription; it is idempotent.
func (n *Notifier) Subscribe(f func(name string)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(string))
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = f
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Notify invokes every subscribed callback with the given property name.
// Props call it on Set; models with derived state may also call it directly.
func (n *Notifier) Notify(name string) {
	n.mu.Lock()
	subs := make([]func(string), 0, len(n.subs))
	for _, f := range n.subs {
		subs = append(subs, f)
	}
	n.mu.Unlock()
	for _, f := range subs {
		f(name)
	}
}

// Prop is a notifying property: a named value that reports every Set through
// its model's Notifier. Create with [NewProp] and store by value in the model
// struct.
type Prop[T any] struct {
	notifier *Notifier
	name     string
	value    T
}

// NewProp returns a Prop with the given initial value, wired to n.
func NewProp[T any](n *Notifier, name string, init T) Prop[T] {
	return Prop[T]{notifier: n, name: name, value: init}
}

// Get returns the current value.
func (p *Prop[T]) Get() T { return p.value }

// Set stores v and notifies subscribers. It notifies even when v equals the
// current value; deduplication, if wanted, belongs to the subscriber.
func (p *Prop[T]) Set(v T) {
	p.value = v
	p.notifier.Notify(p.name)
}

// Name returns the property name used in notifications.
func (p *Prop[T]) Name() string { return p.name }
