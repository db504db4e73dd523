// Package stream adapts and combines event producers.
//
// A [Producer] is anything that can push values to a subscriber: a widget
// event, a timer, an external feed. [Adapt] maps a producer's raw occurrences
// to domain events; [Unify] merges two differently-typed producers into one
// producer of [Either] values. This is a push model with no buffering:
// occurrences that fire before anyone subscribes are dropped, and delivery
// order is the order the sources emit in. Serializing delivery is the
// dispatch runtime's job, not this package's.
package stream

import "sync"

// Producer is the boundary for any event source. Subscribe registers f to
// receive every subsequent occurrence and returns a function that removes the
// subscription.
type Producer[T any] interface {
	Subscribe(f func(T)) (unsubscribe func())
}

// Adapt wraps a producer of raw occurrences as a producer of domain events,
// applying conv to each occurrence. Every occurrence yields exactly one
// event, in emission order.
func Adapt[R, E any](p Producer[R], conv func(R) E) Producer[E] {
	return adapted[R, E]{p, conv}
}

type adapted[R, E any] struct {
	p    Producer[R]
	conv func(R) E
}

func (a adapted[R, E]) Subscribe(f func(E)) func() {
	return a.p.Subscribe(func(r R) { f(a.conv(r)) })
}

// Emitter is a Producer driven by explicit Emit calls. It is what concrete
// event sources (widgets, timers, feeds) are typically built on.
//
// The zero value is ready to use.
type Emitter[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(T)
}

// Subscribe implements Producer.
func (e *Emitter[T]) Subscribe(f func(T)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subs == nil {
		e.subs = make(map[int]func(T))
	}
	id := e.nextID
	e.nextID++
	e.subs[id] = f
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// Emit pushes v to all current subscribers, synchronously. With no
// subscribers the occurrence is dropped.
func (e *Emitter[T]) Emit(v T) {
	e.mu.Lock()
	subs := make([]func(T), 0, len(e.subs))
	for _, f := range e.subs {
		subs = append(subs, f)
	}
	e.mu.Unlock()
	for _, f := range subs {
		f(v)
	}
}
