package graph

import "sort"

// hitEntry caches one registered component's query state.
type hitEntry struct {
	comp Component
	kind EntityKind
	box  Rect
	z    int
	// seq breaks z ties: higher means more recently registered or brought
	// to front.
	seq   uint64
	dirty bool
}

// HitTest maintains world-space bounding boxes for all live scene
// components and answers point and box queries in z order. Geometry-change
// notifications from many components within one frame coalesce into a
// single refresh via the scheduler, so the per-frame cost is bounded by the
// number of changed components, not the number of change events.
type HitTest struct {
	entries []*hitEntry
	byComp  map[Component]*hitEntry
	seq     uint64

	refresh *Debounced[struct{}]
	updated Emitter[struct{}]
}

// NewHitTest creates an empty index. Refreshes are batched on sched; pass
// the scene's scheduler.
func NewHitTest(sched *Scheduler) *HitTest {
	h := &HitTest{byComp: make(map[Component]*hitEntry)}
	h.refresh = Debounce(sched, func(struct{}) { h.applyRefresh() }, GateOptions{
		Priority:      PriorityHighest,
		FrameInterval: 1,
	})
	return h
}

// Register adds a component to the index, reading its box, z-order, and
// kind immediately. Registering an already-registered component refreshes
// it in place.
func (h *HitTest) Register(c Component) {
	if e, ok := h.byComp[c]; ok {
		e.box = c.HitBox()
		e.z = c.ZOrder()
		e.dirty = false
		return
	}
	h.seq++
	e := &hitEntry{
		comp: c,
		kind: c.Kind(),
		box:  c.HitBox(),
		z:    c.ZOrder(),
		seq:  h.seq,
	}
	h.entries = append(h.entries, e)
	h.byComp[c] = e
}

// Unregister removes a component. The component stops appearing in query
// results immediately. Unregistering an unknown component is a no-op.
func (h *HitTest) Unregister(c Component) {
	e, ok := h.byComp[c]
	if !ok {
		return
	}
	delete(h.byComp, c)
	for i := range h.entries {
		if h.entries[i] == e {
			copy(h.entries[i:], h.entries[i+1:])
			h.entries[len(h.entries)-1] = nil
			h.entries = h.entries[:len(h.entries)-1]
			break
		}
	}
}

// Invalidate marks a component's cached geometry stale. The refresh runs at
// most once per frame regardless of how many components were invalidated.
// Invalidating an unregistered component is a no-op.
func (h *HitTest) Invalidate(c Component) {
	e, ok := h.byComp[c]
	if !ok {
		return
	}
	e.dirty = true
	h.refresh.Call(struct{}{})
}

// Flush applies any pending refresh immediately instead of waiting for the
// next frame. Query methods call this implicitly, so results always see
// the latest geometry.
func (h *HitTest) Flush() {
	h.refresh.Flush()
}

// applyRefresh re-reads box and z-order for all dirty entries and notifies
// update listeners once.
func (h *HitTest) applyRefresh() {
	changed := false
	for _, e := range h.entries {
		if !e.dirty {
			continue
		}
		e.dirty = false
		e.box = e.comp.HitBox()
		e.z = e.comp.ZOrder()
		changed = true
	}
	if changed {
		h.updated.Emit(struct{}{})
	}
}

// OnUpdate registers a listener fired after each batched index refresh.
// Returns an unsubscribe function.
func (h *HitTest) OnUpdate(fn func()) func() {
	return h.updated.Listen(func(*EventContext, struct{}) { fn() })
}

// BringToFront bumps a component above everything sharing its explicit
// z-index. Called on click and drag start so the most recently interacted
// component wins overlap ties.
func (h *HitTest) BringToFront(c Component) {
	e, ok := h.byComp[c]
	if !ok {
		return
	}
	h.seq++
	e.seq = h.seq
}

// TestPoint returns all components whose bounding box contains the world
// point, ordered topmost first (highest explicit z-index, most recent
// interaction breaking ties). An empty index yields an empty result.
func (h *HitTest) TestPoint(p Point) []Component {
	return h.testPoint(p, false, 0)
}

// TestPointKind is TestPoint restricted to components of one kind.
func (h *HitTest) TestPointKind(p Point, kind EntityKind) []Component {
	return h.testPoint(p, true, kind)
}

func (h *HitTest) testPoint(p Point, filter bool, kind EntityKind) []Component {
	h.Flush()
	var matched []*hitEntry
	for _, e := range h.entries {
		if filter && e.kind != kind {
			continue
		}
		if e.box.Contains(p.X, p.Y) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].z != matched[j].z {
			return matched[i].z > matched[j].z
		}
		return matched[i].seq > matched[j].seq
	})
	out := make([]Component, len(matched))
	for i, e := range matched {
		out[i] = e.comp
	}
	return out
}

// TestBox returns all components whose bounding box intersects the world
// rectangle, in index order. Callers needing z order sort explicitly.
func (h *HitTest) TestBox(r Rect) []Component {
	h.Flush()
	out := make([]Component, 0)
	for _, e := range h.entries {
		if e.box.Intersects(r) {
			out = append(out, e.comp)
		}
	}
	return out
}

// Len returns the number of registered components.
func (h *HitTest) Len() int {
	return len(h.entries)
}
