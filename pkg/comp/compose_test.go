package comp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"src.tether.dev/pkg/comp"
	"src.tether.dev/pkg/dispatch"
	"src.tether.dev/pkg/stream"
)

// A two-level composite: a shell parent owning a counter child. The parent
// controller creates the child model during initialization, as composition
// requires.

type counterModel struct {
	hits    int
	initLog *[]string
}

type shellModel struct {
	counter *counterModel
	initLog []string
	clicks  int
}

type shellEvent struct{ name string }

type counterEvent interface{ counterEvent() }

type bump struct{}
type bumpLater struct{}

func (bump) counterEvent()      {}
func (bumpLater) counterEvent() {}

type shellView struct {
	events stream.Emitter[shellEvent]
}

func (v *shellView) InstallBindings(*shellModel) error   { return nil }
func (v *shellView) Events() stream.Producer[shellEvent] { return &v.events }
func (v *shellView) DeclaredEvents() []shellEvent        { return []shellEvent{{"click"}} }

type counterView struct {
	events  stream.Emitter[counterEvent]
	withErr error
}

func (v *counterView) InstallBindings(*counterModel) error { return v.withErr }
func (v *counterView) Events() stream.Producer[counterEvent] {
	return &v.events
}
func (v *counterView) DeclaredEvents() []counterEvent { return []counterEvent{bump{}, bumpLater{}} }

type shellController struct{}

func (shellController) InitModel(m *shellModel) {
	m.initLog = append(m.initLog, "parent")
	m.counter = &counterModel{initLog: &m.initLog}
}

func (shellController) HandlerFor(e shellEvent) (dispatch.Handler[*shellModel], bool) {
	if e.name != "click" {
		return nil, false
	}
	return dispatch.Sync[*shellModel](func(m *shellModel) { m.clicks++ }), true
}

type counterController struct {
	done chan struct{}
}

func (counterController) InitModel(m *counterModel) {
	*m.initLog = append(*m.initLog, "child")
}

func (c counterController) HandlerFor(e counterEvent) (dispatch.Handler[*counterModel], bool) {
	switch e.(type) {
	case bump:
		return dispatch.Sync[*counterModel](func(m *counterModel) { m.hits++ }), true
	case bumpLater:
		return dispatch.Async[*counterModel]{
			Do: func(_ context.Context, _ *counterModel, post func(func(*counterModel))) error {
				post(func(m *counterModel) {
					m.hits += 10
					close(c.done)
				})
				return nil
			},
		}, true
	}
	return nil, false
}

func composite(done chan struct{}) (
	comp.Component[*shellModel, stream.Either[shellEvent, counterEvent]],
	*shellView, *counterView,
) {
	parentView := &shellView{}
	childView := &counterView{}
	parent := comp.Component[*shellModel, shellEvent]{
		Model:      &shellModel{},
		View:       parentView,
		Controller: shellController{},
	}
	child := comp.Component[*counterModel, counterEvent]{
		// The child model is created by the parent controller; this field is
		// not used in composition.
		View:       childView,
		Controller: counterController{done: done},
	}
	sel := func(m *shellModel) *counterModel { return m.counter }
	return comp.Compose(parent, child, sel), parentView, childView
}

func TestCompose_InitializesParentBeforeChild(t *testing.T) {
	c, _, _ := composite(make(chan struct{}))
	rt, err := comp.Start(c)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	if len(c.Model.initLog) != 2 || c.Model.initLog[0] != "parent" || c.Model.initLog[1] != "child" {
		t.Errorf("init order = %v, want [parent child]", c.Model.initLog)
	}
}

func TestCompose_RoutesTaggedEventsToEachController(t *testing.T) {
	c, parentView, childView := composite(make(chan struct{}))
	rt, err := comp.Start(c)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	parentView.events.Emit(shellEvent{"click"})
	childView.events.Emit(bump{})
	childView.events.Emit(bump{})

	if c.Model.clicks != 1 {
		t.Errorf("parent clicks = %d, want 1", c.Model.clicks)
	}
	if c.Model.counter.hits != 2 {
		t.Errorf("child hits = %d, want 2", c.Model.counter.hits)
	}
}

func TestCompose_RebasesAsyncChildHandlers(t *testing.T) {
	done := make(chan struct{})
	c, _, childView := composite(done)
	rt, err := comp.Start(c)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	childView.events.Emit(bumpLater{})
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for rebased async mutation")
	}
	if c.Model.counter.hits != 10 {
		t.Errorf("child hits = %d, want 10", c.Model.counter.hits)
	}
}

func TestCompose_CombinesBindingErrors(t *testing.T) {
	c, _, childView := composite(make(chan struct{}))
	childErr := errors.New("child widget missing")
	childView.withErr = childErr
	rt, err := comp.Start(c)
	if !errors.Is(err, childErr) {
		t.Fatalf("error = %v, want the child binding failure", err)
	}
	if rt == nil {
		t.Fatal("composite startup aborted by child binding failure")
	}
	rt.Stop()
}

func TestCompose_CoverageCheckSpansBothAlphabets(t *testing.T) {
	parent := comp.Component[*shellModel, shellEvent]{
		Model:      &shellModel{},
		View:       &shellView{},
		Controller: shellController{},
	}
	child := comp.Component[*counterModel, counterEvent]{
		View:       &counterView{},
		Controller: partialCounterController{},
	}
	c := comp.Compose(parent, child, func(m *shellModel) *counterModel { return m.counter })
	_, err := comp.Start(c)
	var missing *comp.MissingHandlerError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingHandlerError for the unmapped child event", err)
	}
}

type partialCounterController struct{}

func (partialCounterController) InitModel(m *counterModel) {
	*m.initLog = append(*m.initLog, "child")
}

func (partialCounterController) HandlerFor(e counterEvent) (dispatch.Handler[*counterModel], bool) {
	if _, ok := e.(bump); ok {
		return dispatch.Sync[*counterModel](func(m *counterModel) { m.hits++ }), true
	}
	return nil, false
}
