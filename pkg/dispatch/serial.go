package dispatch

import "sync"

// serializer runs queued functions strictly one at a time.
//
// Calling run queues f; if no drain is in progress, the calling goroutine
// drains the queue until it is empty. Functions queued while a drain is in
// progress are appended and picked up by that same drain after the current
// function returns; this includes functions queued from inside the currently
// running function, as happens when a handler's model mutation synchronously
// re-triggers an event. Nothing is ever dropped and nothing ever runs
// reentrantly, which is the property a simple busy flag cannot provide.
type serializer struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
}

func (s *serializer) run(f func()) {
	s.mu.Lock()
	s.queue = append(s.queue, f)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			// The flag must drop in the same critical section as the empty
			// check: a concurrent run that appends after the check relies on
			// draining still being true to hand its function to this drain.
			s.draining = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		s.call(next)
	}
}

// call runs one queued function. If it panics, the draining flag is reset
// before the panic propagates, so the serializer stays usable if the panic is
// recovered upstream.
func (s *serializer) call(next func()) {
	done := false
	defer func() {
		if !done {
			s.mu.Lock()
			s.draining = false
			s.mu.Unlock()
		}
	}()
	next()
	done = true
}
