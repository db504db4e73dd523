package dispatch

import "context"

// Handler is what an event dispatches to: either a [Sync] or an [Async].
type Handler[M any] interface {
	isHandler(M)
}

// Sync is a handler invoked inline on the dispatch context. It may mutate the
// model freely; any panic is caught and routed to the runtime's error hook.
type Sync[M any] func(m M)

func (Sync[M]) isHandler(M) {}

// Async is a handler whose work runs on its own goroutine, without blocking
// the dispatch of further events. Completion is not awaited.
//
// Do receives the runtime's cancellation context and a post function. Async
// code must not mutate the model directly: every mutation goes through post,
// which re-enters the serialized dispatch context. A non-nil error returned
// by Do is routed to the runtime's error hook, except for context
// cancellation, which instead runs OnCancel (when set) on the dispatch
// context as a compensating action.
type Async[M any] struct {
	Do       func(ctx context.Context, m M, post func(func(M))) error
	OnCancel func(m M)
}

func (Async[M]) isHandler(M) {}
