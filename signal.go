package graph

// signalSub is one subscriber of a Signal.
type signalSub[T any] struct {
	id uint32
	fn func(T)
}

// Signal is a value holder with subscription. Reactive state throughout the
// engine (camera state, block geometry, selection flags) is held in Signals
// so consumers can apply incremental updates instead of polling.
//
// Signal is not safe for concurrent use; the engine is single-threaded and
// frame-driven.
type Signal[T any] struct {
	value      T
	subs       []signalSub[T]
	nextID     uint32
	batchDepth int
	dirty      bool
}

// NewSignal creates a Signal holding the given initial value.
// No notification is fired for the initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	return s.value
}

// Set stores a new value and notifies subscribers. Inside [Signal.Batch]
// the notification is deferred and coalesced into a single one.
func (s *Signal[T]) Set(v T) {
	s.value = v
	if s.batchDepth > 0 {
		s.dirty = true
		return
	}
	s.notify()
}

// Subscribe registers a listener called with the value after each Set (or
// once per batch). It returns an unsubscribe function; calling it more than
// once is harmless.
func (s *Signal[T]) Subscribe(fn func(T)) func() {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, signalSub[T]{id: id, fn: fn})
	return func() {
		for i := range s.subs {
			if s.subs[i].id == id {
				copy(s.subs[i:], s.subs[i+1:])
				s.subs[len(s.subs)-1] = signalSub[T]{}
				s.subs = s.subs[:len(s.subs)-1]
				return
			}
		}
	}
}

// Batch runs fn with notifications suspended. Any Sets performed inside fn
// (including nested batches) produce at most one notification, fired when
// the outermost batch ends.
func (s *Signal[T]) Batch(fn func()) {
	s.batchDepth++
	fn()
	s.batchDepth--
	if s.batchDepth == 0 && s.dirty {
		s.dirty = false
		s.notify()
	}
}

// notify delivers the current value to all subscribers. Iterates over a
// snapshot so a subscriber may unsubscribe itself (or others) mid-delivery.
func (s *Signal[T]) notify() {
	if len(s.subs) == 0 {
		return
	}
	snapshot := make([]signalSub[T], len(s.subs))
	copy(snapshot, s.subs)
	v := s.value
	for _, sub := range snapshot {
		sub.fn(v)
	}
}
