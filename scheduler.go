package graph

import (
	"fmt"
	"os"
	"time"
)

// Priority orders scheduler tiers. Within one frame, tasks in a higher
// priority tier always run before tasks in a lower one.
type Priority uint8

const (
	PriorityHighest Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
	PriorityLowest

	numPriorities
)

// TaskOptions configures a scheduled task.
type TaskOptions struct {
	// Priority selects the tier the task runs in. Default PriorityHighest.
	Priority Priority
	// FrameInterval is the minimum number of ticks between firings.
	// Values below 1 are treated as 1 (fire every frame).
	FrameInterval int
	// FrameTimeout is an optional minimum wall-clock interval between
	// firings. Zero disables the gate. When set, both the frame counter
	// and the elapsed-time gate must be satisfied simultaneously.
	FrameTimeout time.Duration
	// Once removes the task after its first firing.
	Once bool
}

// task is the scheduler's internal per-task state.
type task struct {
	fn            func()
	priority      Priority
	frameInterval int
	frameTimeout  time.Duration
	counter       int
	armedAt       time.Time
	once          bool
	canceled      bool
}

// TaskHandle identifies a scheduled task for removal. The zero value is
// inert: removing it is a no-op.
type TaskHandle struct {
	t *task
}

// Scheduler is a cooperative task runner driven by the host's frame clock.
// It owns priority lanes and the frame/time gates behind [Debounce] and
// [Throttle]. One Scheduler is constructed per [Scene]; there is no global
// instance, so independent scenes stay isolated in tests.
//
// Tick must be called exactly once per frame by the host. Tasks never
// preempt each other: each runs to completion before the next begins.
type Scheduler struct {
	tiers    [numPriorities][]*task
	deferred []*task
	running  bool
	ticking  bool

	// now is the wall clock, injectable for tests.
	now func() time.Time

	// OnTaskPanic, when non-nil, receives the recovered value of any task
	// that panicked. A panicking task never aborts its siblings; when
	// OnTaskPanic is nil the panic is reported to stderr.
	OnTaskPanic func(recovered any)
}

// NewScheduler creates a stopped Scheduler. Call Start before ticking.
func NewScheduler() *Scheduler {
	return &Scheduler{now: time.Now}
}

// Add registers fn to run according to opts and returns a handle for
// removal. Tasks added while a Tick is in flight join the schedule on the
// next frame, so a task registered at frame N with FrameInterval k first
// fires no earlier than frame N+k.
func (s *Scheduler) Add(fn func(), opts TaskOptions) TaskHandle {
	interval := opts.FrameInterval
	if interval < 1 {
		interval = 1
	}
	t := &task{
		fn:            fn,
		priority:      opts.Priority,
		frameInterval: interval,
		frameTimeout:  opts.FrameTimeout,
		// -1 absorbs the increment of a tick later in the same frame; see rearm.
		counter: -1,
		armedAt: s.now(),
		once:    opts.Once,
	}
	if t.priority >= numPriorities {
		t.priority = PriorityLowest
	}
	if s.ticking {
		s.deferred = append(s.deferred, t)
	} else {
		s.tiers[t.priority] = append(s.tiers[t.priority], t)
	}
	return TaskHandle{t: t}
}

// Remove cancels a task. Safe to call from within any task callback,
// including the task's own: the cancellation flag is consulted at fire
// time, so a tick already in flight for this frame will not fire it, and
// sibling tasks in the same tier are neither skipped nor double-fired.
// Removing an already-removed or zero handle is a no-op.
func (s *Scheduler) Remove(h TaskHandle) {
	if h.t == nil || h.t.canceled {
		return
	}
	h.t.canceled = true
	if !s.ticking {
		s.sweep()
	}
}

// Start enables ticking. Idempotent.
func (s *Scheduler) Start() {
	s.running = true
}

// Stop disables ticking and clears all pending per-frame counters without
// firing them. Registered tasks survive and re-arm from zero on the next
// Start. Idempotent.
func (s *Scheduler) Stop() {
	s.running = false
	now := s.now()
	for p := range s.tiers {
		for _, t := range s.tiers[p] {
			t.counter = 0
			t.armedAt = now
		}
	}
}

// Tick advances every task by one frame, invoking those whose gates are
// satisfied, highest priority tier first and registration order within a
// tier. A no-op unless Start has been called.
func (s *Scheduler) Tick() {
	if !s.running {
		return
	}
	s.ticking = true
	now := s.now()
	for p := range s.tiers {
		// Index loop: a task firing may register new tasks, but those are
		// deferred, so the slice does not change under us.
		tier := s.tiers[p]
		for i := 0; i < len(tier); i++ {
			t := tier[i]
			if t.canceled {
				continue
			}
			t.counter++
			if t.counter < t.frameInterval {
				continue
			}
			if t.frameTimeout > 0 && now.Sub(t.armedAt) < t.frameTimeout {
				continue
			}
			t.counter = 0
			t.armedAt = now
			if t.once {
				t.canceled = true
			}
			s.invoke(t)
		}
	}
	s.ticking = false
	s.sweep()
	s.flushDeferred()
}

// rearm resets a task's gates as if it had just been registered. The -1
// counter absorbs the increment of a tick still in flight for the current
// frame, so a full FrameInterval of quiet frames must pass before firing.
func (s *Scheduler) rearm(t *task) {
	t.counter = -1
	t.armedAt = s.now()
}

// invoke runs one task, isolating panics so siblings in the same tick are
// unaffected.
func (s *Scheduler) invoke(t *task) {
	defer func() {
		if r := recover(); r != nil {
			if s.OnTaskPanic != nil {
				s.OnTaskPanic(r)
				return
			}
			_, _ = fmt.Fprintf(os.Stderr, "[graph] scheduler task panic: %v\n", r)
		}
	}()
	t.fn()
}

// sweep drops canceled tasks from every tier.
func (s *Scheduler) sweep() {
	for p := range s.tiers {
		tier := s.tiers[p]
		kept := tier[:0]
		for _, t := range tier {
			if !t.canceled {
				kept = append(kept, t)
			}
		}
		for i := len(kept); i < len(tier); i++ {
			tier[i] = nil
		}
		s.tiers[p] = kept
	}
}

// flushDeferred moves tasks registered during a tick into their tiers.
func (s *Scheduler) flushDeferred() {
	for _, t := range s.deferred {
		s.tiers[t.priority] = append(s.tiers[t.priority], t)
	}
	s.deferred = s.deferred[:0]
}

// --- Debounce / Throttle ---

// GateOptions configures the frame and wall-clock gates of a [Debounce] or
// [Throttle] wrapper.
type GateOptions struct {
	Priority      Priority
	FrameInterval int
	FrameTimeout  time.Duration
}

// Debounced delivers only the most recent pending call. Each Call resets
// both gates and overwrites the pending arguments, so a Debounced called
// again on every frame never fires.
type Debounced[T any] struct {
	s       *Scheduler
	fn      func(T)
	opts    GateOptions
	handle  TaskHandle
	pending bool
	arg     T
}

// Debounce wraps fn in trailing-edge debounce semantics on s.
func Debounce[T any](s *Scheduler, fn func(T), opts GateOptions) *Debounced[T] {
	return &Debounced[T]{s: s, fn: fn, opts: opts}
}

// Call schedules (or re-arms) the pending invocation with arg.
func (d *Debounced[T]) Call(arg T) {
	d.arg = arg
	if d.pending {
		d.s.rearm(d.handle.t)
		return
	}
	d.pending = true
	d.handle = d.s.Add(d.fire, TaskOptions{
		Priority:      d.opts.Priority,
		FrameInterval: d.opts.FrameInterval,
		FrameTimeout:  d.opts.FrameTimeout,
		Once:          true,
	})
}

func (d *Debounced[T]) fire() {
	d.pending = false
	d.fn(d.arg)
}

// Pending reports whether an invocation is scheduled.
func (d *Debounced[T]) Pending() bool {
	return d.pending
}

// Cancel drops the pending invocation, if any, without firing.
func (d *Debounced[T]) Cancel() {
	if !d.pending {
		return
	}
	d.s.Remove(d.handle)
	d.pending = false
}

// Flush fires immediately with the latest pending arguments if an
// invocation is pending; otherwise it does nothing.
func (d *Debounced[T]) Flush() {
	if !d.pending {
		return
	}
	d.s.Remove(d.handle)
	d.pending = false
	d.fn(d.arg)
}

// Throttled fires on the leading edge: the first Call fires immediately,
// then calls are ignored until both gates elapse, after which the next Call
// fires immediately again. Intermediate arguments are dropped, not queued.
type Throttled[T any] struct {
	s      *Scheduler
	fn     func(T)
	opts   GateOptions
	handle TaskHandle
	gated  bool
}

// Throttle wraps fn in leading-edge throttle semantics on s.
func Throttle[T any](s *Scheduler, fn func(T), opts GateOptions) *Throttled[T] {
	return &Throttled[T]{s: s, fn: fn, opts: opts}
}

// Call fires fn(arg) if the gate is open, then closes it until the
// configured frame and time gates elapse.
func (t *Throttled[T]) Call(arg T) {
	if t.gated {
		return
	}
	t.gated = true
	t.handle = t.s.Add(t.reopen, TaskOptions{
		Priority:      t.opts.Priority,
		FrameInterval: t.opts.FrameInterval,
		FrameTimeout:  t.opts.FrameTimeout,
		Once:          true,
	})
	t.fn(arg)
}

func (t *Throttled[T]) reopen() {
	t.gated = false
}

// Cancel reopens the gate and drops the pending reopen task. No further
// firing happens until the next Call.
func (t *Throttled[T]) Cancel() {
	if !t.gated {
		return
	}
	t.s.Remove(t.handle)
	t.gated = false
}
