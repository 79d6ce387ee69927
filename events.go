package graph

// EventContext is passed to Emitter listeners. A listener may cancel the
// event's default action; gated mutations (camera commits, selection
// changes) consult the flag before applying.
type EventContext struct {
	canceled bool
}

// PreventDefault marks the event as canceled. The mutation that offered the
// event is skipped entirely.
func (c *EventContext) PreventDefault() {
	c.canceled = true
}

// Canceled reports whether any listener called PreventDefault.
func (c *EventContext) Canceled() bool {
	return c.canceled
}

// emitterHandler is one registered listener of an Emitter.
type emitterHandler[T any] struct {
	id uint32
	fn func(*EventContext, T)
}

// Emitter is a typed event channel with cancelable default actions.
// The zero value is ready to use.
//
// Emitter replaces DOM-style event targets: instead of bubbling, each Emit
// delivers to every listener in registration order and reports whether the
// default action should proceed.
type Emitter[T any] struct {
	handlers []emitterHandler[T]
	nextID   uint32
}

// Listen registers a listener and returns an unsubscribe function.
func (e *Emitter[T]) Listen(fn func(*EventContext, T)) func() {
	e.nextID++
	id := e.nextID
	e.handlers = append(e.handlers, emitterHandler[T]{id: id, fn: fn})
	return func() {
		for i := range e.handlers {
			if e.handlers[i].id == id {
				copy(e.handlers[i:], e.handlers[i+1:])
				e.handlers[len(e.handlers)-1] = emitterHandler[T]{}
				e.handlers = e.handlers[:len(e.handlers)-1]
				return
			}
		}
	}
}

// Emit delivers v to all listeners and reports whether the default action
// should proceed (true unless a listener called PreventDefault). Listeners
// are invoked on a snapshot, so unsubscribing mid-delivery is safe.
func (e *Emitter[T]) Emit(v T) bool {
	if len(e.handlers) == 0 {
		return true
	}
	snapshot := make([]emitterHandler[T], len(e.handlers))
	copy(snapshot, e.handlers)
	var ctx EventContext
	for _, h := range snapshot {
		h.fn(&ctx, v)
	}
	return !ctx.canceled
}
