package stream

// Either is a tagged union of two event types. Exactly one of the Left and
// Right fields is meaningful, identified by IsRight.
//
// Nesting Either values forms a binary tree whose shape mirrors how streams
// were unified; composing a parent component's already-unified stream with a
// child's therefore stays type-safe at any depth without combinatorial event
// types.
type Either[A, B any] struct {
	IsRight bool
	Left    A
	Right   B
}

// Left returns an Either holding a left value.
func Left[A, B any](v A) Either[A, B] { return Either[A, B]{Left: v} }

// Right returns an Either holding a right value.
func Right[A, B any](v B) Either[A, B] { return Either[A, B]{IsRight: true, Right: v} }

// Unify merges two producers into one producer of tagged values. The
// relative order within each input is preserved, and values interleave across
// inputs in arrival order; Unify itself adds no buffering or delay.
// Subscribing to the unified producer subscribes to both inputs, and the
// returned unsubscribe function detaches from both.
func Unify[A, B any](a Producer[A], b Producer[B]) Producer[Either[A, B]] {
	return unified[A, B]{a, b}
}

type unified[A, B any] struct {
	a Producer[A]
	b Producer[B]
}

func (u unified[A, B]) Subscribe(f func(Either[A, B])) func() {
	unsubA := u.a.Subscribe(func(v A) { f(Left[A, B](v)) })
	unsubB := u.b.Subscribe(func(v B) { f(Right[A, B](v)) })
	return func() {
		unsubA()
		unsubB()
	}
}
