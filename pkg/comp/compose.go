package comp

import (
	"context"

	"src.tether.dev/pkg/dispatch"
	"src.tether.dev/pkg/errutil"
	"src.tether.dev/pkg/stream"
)

// Compose builds a composite component from a parent triple and a child
// triple. The composite's model is the parent model; sel selects the live
// child model out of it. The parent controller is expected to create and
// attach the child model during InitModel, which is why initialization runs
// parent before child; child.Model itself is ignored.
//
// The composite event type is the tagged union of the two event alphabets:
// parent events arrive as Left, child events as Right and are dispatched to
// the child controller against sel(model). Composing composites nests the
// union into a binary tree mirroring the composition tree, so arbitrarily
// deep trees stay type-safe.
func Compose[P, C, PE, CE any](
	parent Component[P, PE], child Component[C, CE], sel func(P) C,
) Component[P, stream.Either[PE, CE]] {
	return Component[P, stream.Either[PE, CE]]{
		Model:      parent.Model,
		View:       compositeView[P, C, PE, CE]{parent.View, child.View, sel},
		Controller: compositeController[P, C, PE, CE]{parent.Controller, child.Controller, sel},
	}
}

type compositeView[P, C, PE, CE any] struct {
	parent View[P, PE]
	child  View[C, CE]
	sel    func(P) C
}

func (v compositeView[P, C, PE, CE]) InstallBindings(m P) error {
	return errutil.Multi(
		v.parent.InstallBindings(m),
		v.child.InstallBindings(v.sel(m)),
	)
}

func (v compositeView[P, C, PE, CE]) Events() stream.Producer[stream.Either[PE, CE]] {
	return stream.Unify[PE, CE](v.parent.Events(), v.child.Events())
}

func (v compositeView[P, C, PE, CE]) DeclaredEvents() []stream.Either[PE, CE] {
	var events []stream.Either[PE, CE]
	for _, e := range v.parent.DeclaredEvents() {
		events = append(events, stream.Left[PE, CE](e))
	}
	for _, e := range v.child.DeclaredEvents() {
		events = append(events, stream.Right[PE, CE](e))
	}
	return events
}

type compositeController[P, C, PE, CE any] struct {
	parent Controller[P, PE]
	child  Controller[C, CE]
	sel    func(P) C
}

func (c compositeController[P, C, PE, CE]) InitModel(m P) {
	// Parent first: it creates the child model that sel then finds.
	c.parent.InitModel(m)
	c.child.InitModel(c.sel(m))
}

func (c compositeController[P, C, PE, CE]) HandlerFor(e stream.Either[PE, CE]) (dispatch.Handler[P], bool) {
	if !e.IsRight {
		return c.parent.HandlerFor(e.Left)
	}
	h, ok := c.child.HandlerFor(e.Right)
	if !ok {
		return nil, false
	}
	return rebase[P, C](h, c.sel), true
}

// rebase lifts a handler on the child model to a handler on the parent model
// by routing every model access through sel.
func rebase[P, C any](h dispatch.Handler[C], sel func(P) C) dispatch.Handler[P] {
	switch h := h.(type) {
	case dispatch.Sync[C]:
		return dispatch.Sync[P](func(m P) { h(sel(m)) })
	case dispatch.Async[C]:
		lifted := dispatch.Async[P]{
			Do: func(ctx context.Context, m P, post func(func(P))) error {
				childPost := func(f func(C)) {
					post(func(m P) { f(sel(m)) })
				}
				return h.Do(ctx, sel(m), childPost)
			},
		}
		if h.OnCancel != nil {
			onCancel := h.OnCancel
			lifted.OnCancel = func(m P) { onCancel(sel(m)) }
		}
		return lifted
	}
	return nil
}
