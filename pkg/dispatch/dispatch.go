// Package dispatch implements the event dispatch runtime.
//
// A [Runtime] subscribes to a component's unified event stream and routes
// each event to its handler, strictly one at a time: a new event is never
// dispatched until the current synchronous handler invocation has returned,
// even when that handler's own mutations synchronously re-trigger events.
// Concurrently arriving events are queued and drained in order, never dropped
// and never delivered reentrantly.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"src.tether.dev/pkg/stream"
)

// Runtime states. A runtime is created Idle, moves to Activated by Start and
// to Disposed by Stop; each delivered event passes through a dispatching
// phase in between.
const (
	stateIdle = iota
	stateActivated
	stateDisposed
)

var (
	// ErrAlreadyStarted is returned by Start on an activated runtime.
	ErrAlreadyStarted = errors.New("dispatch runtime already started")
	// ErrDisposed is returned by Start on a disposed runtime.
	ErrDisposed = errors.New("dispatch runtime disposed")
)

// HandlerError wraps an error raised by a handler, together with the event
// whose dispatch raised it. The original error is preserved through Unwrap.
type HandlerError struct {
	Event any
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("error handling event %v: %v", e.Event, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// NoHandlerError reports an event that reached dispatch with no handler
// mapped to it. Component construction validates handler coverage, so seeing
// this at runtime signals a framework bug rather than a user error.
type NoHandlerError struct {
	Event any
}

func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("no handler for event %v", e.Event)
}

// Runtime dispatches the events of one component tree. Create with [New],
// start with [Runtime.Start], dispose with [Runtime.Stop].
type Runtime[M, E any] struct {
	// OnError is invoked with the event being dispatched and the error its
	// handler raised. Handler errors are never swallowed: when OnError is
	// nil, the error is re-raised as a panic wrapping a [*HandlerError] so
	// that it reaches the process-wide handler. Set before Start.
	OnError func(event any, err error)
	// Logger, when non-nil, receives debug diagnostics (currently only
	// reentrancy violations). Set before Start.
	Logger *log.Logger

	model  M
	route  func(E) (Handler[M], bool)
	sq     serializer
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       int
	unsubscribe func()
	inHandler   bool
}

// New creates an idle runtime over the given model. route maps each event to
// its handler; it must be a pure function of the event.
func New[M, E any](model M, route func(E) (Handler[M], bool)) *Runtime[M, E] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runtime[M, E]{model: model, route: route, ctx: ctx, cancel: cancel}
}

// Model returns the model the runtime dispatches against.
func (rt *Runtime[M, E]) Model() M { return rt.model }

// Context returns the shared cancellation context passed to async handlers.
// It is cancelled by [Runtime.Cancel] and by [Runtime.Stop].
func (rt *Runtime[M, E]) Context() context.Context { return rt.ctx }

// Start subscribes the runtime to src and moves it to the activated state.
// Events that fired before Start are not replayed.
func (rt *Runtime[M, E]) Start(src stream.Producer[E]) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	switch rt.state {
	case stateActivated:
		return ErrAlreadyStarted
	case stateDisposed:
		return ErrDisposed
	}
	rt.state = stateActivated
	rt.unsubscribe = src.Subscribe(rt.deliver)
	return nil
}

// Stop unsubscribes from the event stream, cancels the shared context and
// moves the runtime to the disposed state. No event is dispatched afterwards.
// Stop is idempotent.
func (rt *Runtime[M, E]) Stop() {
	rt.mu.Lock()
	if rt.state == stateDisposed {
		rt.mu.Unlock()
		return
	}
	rt.state = stateDisposed
	unsub := rt.unsubscribe
	rt.unsubscribe = nil
	rt.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	rt.cancel()
}

// Cancel cancels the shared cancellation context. In-flight async handlers
// that carry a compensating action will run it on the dispatch context;
// handlers with unrelated, separately derived contexts are unaffected.
func (rt *Runtime[M, E]) Cancel() { rt.cancel() }

// Post runs f with the model on the serialized dispatch context. It is the
// re-entry point async code must use for every model mutation; it is also
// safe to call from background event producers. Posts after disposal are
// discarded.
func (rt *Runtime[M, E]) Post(f func(M)) {
	rt.sq.run(func() {
		if rt.disposed() {
			return
		}
		f(rt.model)
	})
}

func (rt *Runtime[M, E]) disposed() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.state == stateDisposed
}

// deliver is the observer installed on the event stream. The serializer
// guarantees dispatchOne never runs reentrantly.
func (rt *Runtime[M, E]) deliver(e E) {
	rt.sq.run(func() { rt.dispatchOne(e) })
}

func (rt *Runtime[M, E]) dispatchOne(e E) {
	rt.mu.Lock()
	if rt.state != stateActivated {
		rt.mu.Unlock()
		return
	}
	if rt.inHandler && rt.Logger != nil {
		rt.Logger.Printf("reentrancy violation: event %v delivered during an active handler", e)
	}
	rt.inHandler = true
	rt.mu.Unlock()
	defer func() {
		rt.mu.Lock()
		rt.inHandler = false
		rt.mu.Unlock()
	}()

	h, ok := rt.route(e)
	if !ok {
		rt.fail(e, &NoHandlerError{Event: e})
		return
	}
	switch h := h.(type) {
	case Sync[M]:
		rt.runSync(e, h)
	case Async[M]:
		go rt.runAsync(e, h)
	default:
		rt.fail(e, fmt.Errorf("unknown handler type %T", h))
	}
}

func (rt *Runtime[M, E]) runSync(e E, h Sync[M]) {
	defer rt.recoverInto(e)
	h(rt.model)
}

func (rt *Runtime[M, E]) runAsync(e E, h Async[M]) {
	defer rt.recoverInto(e)
	err := h.Do(rt.ctx, rt.model, rt.Post)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		if h.OnCancel != nil {
			rt.Post(h.OnCancel)
		}
	default:
		rt.fail(e, err)
	}
}

func (rt *Runtime[M, E]) recoverInto(e E) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("handler panic: %v", r)
		}
		rt.fail(e, err)
	}
}

func (rt *Runtime[M, E]) fail(event any, err error) {
	if rt.OnError != nil {
		rt.OnError(event, err)
		return
	}
	panic(&HandlerError{Event: event, Err: err})
}
