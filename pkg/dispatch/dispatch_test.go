package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"src.tether.dev/pkg/dispatch"
	"src.tether.dev/pkg/stream"
)

type calcModel struct {
	count  int
	status string
}

type testEvent interface{ event() }

type incr struct{}
type boom struct{}
type startWork struct{}

func (incr) event()      {}
func (boom) event()      {}
func (startWork) event() {}

func routeMap(m map[string]dispatch.Handler[*calcModel]) func(testEvent) (dispatch.Handler[*calcModel], bool) {
	return func(e testEvent) (dispatch.Handler[*calcModel], bool) {
		var key string
		switch e.(type) {
		case incr:
			key = "incr"
		case boom:
			key = "boom"
		case startWork:
			key = "startWork"
		}
		h, ok := m[key]
		return h, ok
	}
}

func await(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for " + what)
	}
}

func TestSyncDispatch(t *testing.T) {
	var src stream.Emitter[testEvent]
	model := &calcModel{}
	rt := dispatch.New[*calcModel, testEvent](model, routeMap(map[string]dispatch.Handler[*calcModel]{
		"incr": dispatch.Sync[*calcModel](func(m *calcModel) { m.count++ }),
	}))
	if err := rt.Start(&src); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	src.Emit(incr{})
	src.Emit(incr{})
	if model.count != 2 {
		t.Errorf("count = %d, want 2", model.count)
	}
}

func TestDispatchSerializesSynchronousRefire(t *testing.T) {
	// A handler whose mutation synchronously re-triggers its own event: the
	// refired event must be queued and dispatched after the handler returns,
	// exactly once, never reentrantly.
	var src stream.Emitter[testEvent]
	model := &calcModel{}
	depth, maxDepth, dispatches := 0, 0, 0
	rt := dispatch.New[*calcModel, testEvent](model, routeMap(map[string]dispatch.Handler[*calcModel]{
		"incr": dispatch.Sync[*calcModel](func(m *calcModel) {
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
			dispatches++
			if m.count == 0 {
				m.count = 1
				src.Emit(incr{})
			}
			depth--
		}),
	}))
	if err := rt.Start(&src); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	src.Emit(incr{})
	if dispatches != 2 {
		t.Errorf("dispatches = %d, want 2", dispatches)
	}
	if maxDepth != 1 {
		t.Errorf("max handler nesting = %d, want 1 (no overlap)", maxDepth)
	}
}

func TestHandlerErrorRoutedToHookAndLoopContinues(t *testing.T) {
	var src stream.Emitter[testEvent]
	model := &calcModel{}
	kaboom := errors.New("kaboom")
	var gotEvent any
	var gotErr error
	rt := dispatch.New[*calcModel, testEvent](model, routeMap(map[string]dispatch.Handler[*calcModel]{
		"boom": dispatch.Sync[*calcModel](func(*calcModel) { panic(kaboom) }),
		"incr": dispatch.Sync[*calcModel](func(m *calcModel) { m.count++ }),
	}))
	rt.OnError = func(event any, err error) { gotEvent, gotErr = event, err }
	if err := rt.Start(&src); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	src.Emit(boom{})
	if gotEvent != (boom{}) || !errors.Is(gotErr, kaboom) {
		t.Errorf("OnError got (%v, %v), want (boom, kaboom)", gotEvent, gotErr)
	}
	// The failure does not abort the dispatch loop.
	src.Emit(incr{})
	if model.count != 1 {
		t.Errorf("count = %d after failed handler, want 1", model.count)
	}
}

func TestDefaultOnErrorReRaises(t *testing.T) {
	var src stream.Emitter[testEvent]
	kaboom := errors.New("kaboom")
	rt := dispatch.New[*calcModel, testEvent](&calcModel{}, routeMap(map[string]dispatch.Handler[*calcModel]{
		"boom": dispatch.Sync[*calcModel](func(*calcModel) { panic(kaboom) }),
	}))
	if err := rt.Start(&src); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		src.Emit(boom{})
	}()
	he, ok := recovered.(*dispatch.HandlerError)
	if !ok {
		t.Fatalf("recovered %v, want *HandlerError", recovered)
	}
	if !errors.Is(he, kaboom) {
		t.Errorf("original error not preserved: %v", he)
	}
}

func TestNoHandlerIsReported(t *testing.T) {
	var src stream.Emitter[testEvent]
	var gotErr error
	rt := dispatch.New[*calcModel, testEvent](&calcModel{}, routeMap(nil))
	rt.OnError = func(_ any, err error) { gotErr = err }
	if err := rt.Start(&src); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	src.Emit(incr{})
	var missing *dispatch.NoHandlerError
	if !errors.As(gotErr, &missing) {
		t.Errorf("error = %v, want NoHandlerError", gotErr)
	}
}

func TestAsyncHandlerPostsMutations(t *testing.T) {
	var src stream.Emitter[testEvent]
	model := &calcModel{}
	applied := make(chan struct{})
	rt := dispatch.New[*calcModel, testEvent](model, routeMap(map[string]dispatch.Handler[*calcModel]{
		"startWork": dispatch.Async[*calcModel]{
			Do: func(_ context.Context, _ *calcModel, post func(func(*calcModel))) error {
				post(func(m *calcModel) {
					m.status = "done"
					close(applied)
				})
				return nil
			},
		},
	}))
	if err := rt.Start(&src); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	src.Emit(startWork{})
	await(t, applied, "posted mutation")
	if model.status != "done" {
		t.Errorf("status = %q, want done", model.status)
	}
}

func TestAsyncFailureRoutedToHook(t *testing.T) {
	var src stream.Emitter[testEvent]
	failure := errors.New("fetch failed")
	errCh := make(chan error, 1)
	rt := dispatch.New[*calcModel, testEvent](&calcModel{}, routeMap(map[string]dispatch.Handler[*calcModel]{
		"startWork": dispatch.Async[*calcModel]{
			Do: func(context.Context, *calcModel, func(func(*calcModel))) error {
				return failure
			},
		},
	}))
	rt.OnError = func(_ any, err error) { errCh <- err }
	if err := rt.Start(&src); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	src.Emit(startWork{})
	select {
	case err := <-errCh:
		if !errors.Is(err, failure) {
			t.Errorf("error = %v, want the handler failure", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for OnError")
	}
}

func TestCancellationRunsCompensation(t *testing.T) {
	var src stream.Emitter[testEvent]
	model := &calcModel{}
	compensated := make(chan struct{})
	rt := dispatch.New[*calcModel, testEvent](model, routeMap(map[string]dispatch.Handler[*calcModel]{
		"startWork": dispatch.Async[*calcModel]{
			Do: func(ctx context.Context, _ *calcModel, post func(func(*calcModel))) error {
				select {
				case <-time.After(time.Minute):
					post(func(m *calcModel) { m.status = "done" })
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
			OnCancel: func(m *calcModel) {
				m.status = "cancelled"
				close(compensated)
			},
		},
	}))
	if err := rt.Start(&src); err != nil {
		t.Fatal(err)
	}
	defer rt.Stop()

	src.Emit(startWork{})
	rt.Cancel()
	await(t, compensated, "compensating action")
	if model.status != "cancelled" {
		t.Errorf("status = %q, want cancelled", model.status)
	}
}

func TestLifecycle(t *testing.T) {
	var src stream.Emitter[testEvent]
	model := &calcModel{}
	rt := dispatch.New[*calcModel, testEvent](model, routeMap(map[string]dispatch.Handler[*calcModel]{
		"incr": dispatch.Sync[*calcModel](func(m *calcModel) { m.count++ }),
	}))
	if err := rt.Start(&src); err != nil {
		t.Fatal(err)
	}
	if err := rt.Start(&src); err != dispatch.ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}

	rt.Stop()
	rt.Stop() // idempotent
	src.Emit(incr{})
	if model.count != 0 {
		t.Errorf("count = %d after Stop, want 0", model.count)
	}
	if err := rt.Start(&src); err != dispatch.ErrDisposed {
		t.Errorf("Start after Stop = %v, want ErrDisposed", err)
	}
	rt.Post(func(m *calcModel) { m.count = 100 })
	if model.count != 0 {
		t.Error("Post applied after disposal")
	}
}
