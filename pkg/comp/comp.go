// Package comp defines the component triple and the composition engine.
//
// A component is a triple of Model, View and Controller. The model is a
// mutable state container with a change-notification capability; the view
// knows how to install bindings against a model and exposes the component's
// event stream; the controller initializes the model and maps each event to
// its handler. [Start] wires a triple together; [Compose] combines a parent
// and a child triple into one component with a unified event stream.
package comp

import (
	"fmt"
	"log"

	"src.tether.dev/pkg/dispatch"
	"src.tether.dev/pkg/stream"
)

// View is the view part of a component triple. It is the only part that
// touches widgets; everything it does with them is opaque to the framework.
type View[M, E any] interface {
	// InstallBindings compiles and installs this view's bindings against m.
	// A non-nil return combines per-binding failures; the corresponding
	// widgets are left unbound but the view remains usable.
	InstallBindings(m M) error
	// Events returns the view's unified event stream.
	Events() stream.Producer[E]
	// DeclaredEvents returns one representative value per event variant the
	// view can emit. Start uses it to check handler coverage.
	DeclaredEvents() []E
}

// Controller is the controller part of a component triple.
type Controller[M, E any] interface {
	// InitModel establishes the model's initial state. For composite models
	// this is where child models are created and attached.
	InitModel(m M)
	// HandlerFor maps an event to its handler. It must be pure.
	HandlerFor(e E) (dispatch.Handler[M], bool)
}

// Component is a model-view-controller triple.
type Component[M, E any] struct {
	Model      M
	View       View[M, E]
	Controller Controller[M, E]
}

// MissingHandlerError reports an event variant declared by a view with no
// handler mapped by the controller. It aborts Start before anything runs.
type MissingHandlerError struct {
	Event any
}

func (e *MissingHandlerError) Error() string {
	return fmt.Sprintf("no handler mapped for declared event %v", e.Event)
}

// StartOption configures Start.
type StartOption func(*startOpts)

type startOpts struct {
	onError func(event any, err error)
	logger  *log.Logger
}

// WithOnError overrides the runtime's error hook. See [dispatch.Runtime].
func WithOnError(f func(event any, err error)) StartOption {
	return func(o *startOpts) { o.onError = f }
}

// WithLogger supplies a logger for the runtime's debug diagnostics.
func WithLogger(l *log.Logger) StartOption {
	return func(o *startOpts) { o.logger = l }
}

// Start brings a component to life: it checks that every declared event
// variant has a handler, initializes the model, installs the view's bindings
// and subscribes a dispatch runtime to the view's event stream. The returned
// runtime is the component's disposable; Stop it to tear the component down.
//
// Binding failures do not abort startup: the affected widgets stay unbound,
// the runtime starts anyway, and the failures are reported in the returned
// error next to the live runtime.
func Start[M, E any](c Component[M, E], opts ...StartOption) (*dispatch.Runtime[M, E], error) {
	var o startOpts
	for _, opt := range opts {
		opt(&o)
	}
	for _, e := range c.View.DeclaredEvents() {
		if _, ok := c.Controller.HandlerFor(e); !ok {
			return nil, &MissingHandlerError{Event: e}
		}
	}
	c.Controller.InitModel(c.Model)
	bindErr := c.View.InstallBindings(c.Model)

	rt := dispatch.New[M, E](c.Model, c.Controller.HandlerFor)
	rt.OnError = o.onError
	rt.Logger = o.logger
	if err := rt.Start(c.View.Events()); err != nil {
		return nil, err
	}
	return rt, bindErr
}
