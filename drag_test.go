package graph

import "testing"

// dragRig wires a drag service to real collaborators, without a scene.
type dragRig struct {
	sched     *Scheduler
	camera    *Camera
	selection *Selection
	settings  Settings
	drag      *DragService
}

func newDragRig(blocks ...*Block) *dragRig {
	r := &dragRig{settings: DefaultSettings()}
	r.sched = NewScheduler()
	r.sched.Start()
	r.camera = NewCamera(r.sched)
	r.camera.SetViewportSize(1000, 800)
	r.selection = newTestSelection(blocks...)
	r.drag = NewDragService(r.camera, r.selection, r.sched, &r.settings)
	return r
}

func TestDragStateMachine(t *testing.T) {
	a := NewBlock("a", Rect{X: 100, Y: 100, Width: 50, Height: 50})
	r := newDragRig(a)

	if r.drag.IsArmed() || r.drag.IsDragging() {
		t.Fatal("fresh service not idle")
	}

	if !r.drag.Arm(a, 125, 125, 0) {
		t.Fatal("Arm refused a draggable target")
	}
	if !r.drag.IsArmed() || r.drag.IsDragging() {
		t.Fatal("not armed after Arm")
	}

	// Inside the dead zone nothing moves.
	r.drag.PointerMove(127, 127, 0)
	if r.drag.IsDragging() {
		t.Fatal("dead zone travel started a drag")
	}
	assertRect(t, "geometry inside dead zone", a.Geometry(), Rect{X: 100, Y: 100, Width: 50, Height: 50})

	// Past the dead zone the block tracks the pointer.
	r.drag.PointerMove(140, 140, 0)
	if !r.drag.IsDragging() {
		t.Fatal("not dragging past the dead zone")
	}
	assertRect(t, "geometry mid-drag", a.Geometry(), Rect{X: 115, Y: 115, Width: 50, Height: 50})

	r.drag.PointerUp(150, 150, 0)
	if r.drag.IsDragging() || r.drag.IsArmed() {
		t.Fatal("not idle after release")
	}
	assertRect(t, "final geometry", a.Geometry(), Rect{X: 125, Y: 125, Width: 50, Height: 50})
}

func TestDragDeadZoneBoundary(t *testing.T) {
	a := NewBlock("a", Rect{Width: 50, Height: 50})
	r := newDragRig(a)
	r.drag.Arm(a, 0, 0, 0)

	// Exactly the dead zone distance does not start a drag.
	r.drag.PointerMove(4, 0, 0)
	if r.drag.IsDragging() {
		t.Error("drag started at exactly the dead zone distance")
	}
	r.drag.PointerMove(4.1, 0, 0)
	if !r.drag.IsDragging() {
		t.Error("drag not started just past the dead zone")
	}
}

func TestDragArmedReleaseIsNoGesture(t *testing.T) {
	a := NewBlock("a", Rect{Width: 50, Height: 50})
	r := newDragRig(a)

	starts, ends := 0, 0
	r.drag.OnStart(func(DragContext) { starts++ })
	r.drag.OnEnd(func(DragContext) { ends++ })

	r.drag.Arm(a, 10, 10, 0)
	r.drag.PointerUp(10, 10, 0)

	if starts != 0 || ends != 0 {
		t.Errorf("armed-only gesture fired start=%d end=%d", starts, ends)
	}
	if !r.drag.Arm(a, 10, 10, 0) {
		t.Error("service not reusable after an armed-only gesture")
	}
}

func TestDragPointerUpWhileIdle(t *testing.T) {
	r := newDragRig()
	r.drag.PointerUp(0, 0, 0) // no-op
	r.drag.PointerMove(5, 5, 0)
	if r.drag.IsDragging() {
		t.Error("idle pointer move started a drag")
	}
}

// --- Arm refusal ---

func TestDragArmRefusals(t *testing.T) {
	a := NewBlock("a", Rect{Width: 50, Height: 50})
	b := NewBlock("b", Rect{X: 100, Y: 0, Width: 50, Height: 50})
	r := newDragRig(a, b)

	if r.drag.Arm(nil, 0, 0, 0) {
		t.Error("armed a nil target")
	}

	a.SetDraggable(false)
	if r.drag.Arm(a, 10, 10, 0) {
		t.Error("armed a non-draggable target")
	}
	a.SetDraggable(true)

	r.settings.DragScope = DragScopeNone
	if r.drag.Arm(a, 10, 10, 0) {
		t.Error("armed with drag scope NONE")
	}
	r.settings.DragScope = DragScopeAll

	r.settings.CanDragBlocks = false
	if r.drag.Arm(a, 10, 10, 0) {
		t.Error("armed with component dragging disabled")
	}
	r.settings.CanDragBlocks = true

	// One gesture at a time.
	if !r.drag.Arm(a, 10, 10, 0) {
		t.Fatal("Arm refused a valid target")
	}
	if r.drag.Arm(b, 110, 10, 0) {
		t.Error("armed a second gesture while one is in progress")
	}
}

func TestDragScopeOnlySelected(t *testing.T) {
	a := NewBlock("a", Rect{Width: 50, Height: 50})
	r := newDragRig(a)
	r.settings.DragScope = DragScopeOnlySelected

	if r.drag.Arm(a, 10, 10, 0) {
		t.Error("armed an unselected target under ONLY_SELECTED")
	}

	r.selection.Select(KindBlock, []string{"a"}, SelectionReplace)
	if !r.drag.Arm(a, 10, 10, 0) {
		t.Error("refused a selected target under ONLY_SELECTED")
	}
}

// --- Participants ---

func TestDragGroupParticipants(t *testing.T) {
	a := NewBlock("a", Rect{X: 0, Y: 0, Width: 100, Height: 100})
	b := NewBlock("b", Rect{X: 200, Y: 0, Width: 100, Height: 100})
	r := newDragRig(a, b)
	r.selection.Select(KindBlock, []string{"a", "b"}, SelectionReplace)

	r.drag.Arm(a, 50, 50, 0)
	r.drag.PointerMove(60, 60, 0)

	st := r.drag.State()
	if !st.Dragging || len(st.Participants) != 2 || !st.Multiple || !st.Homogeneous {
		t.Fatalf("state = %+v, want 2 homogeneous participants", st)
	}

	r.drag.PointerUp(150, 150, 0)
	// Both moved by the same world diff: relative offset preserved.
	assertRect(t, "a", a.Geometry(), Rect{X: 100, Y: 100, Width: 100, Height: 100})
	assertRect(t, "b", b.Geometry(), Rect{X: 300, Y: 100, Width: 100, Height: 100})
}

func TestDragUnselectedTargetMovesAlone(t *testing.T) {
	a := NewBlock("a", Rect{X: 0, Y: 0, Width: 100, Height: 100})
	b := NewBlock("b", Rect{X: 200, Y: 0, Width: 100, Height: 100})
	r := newDragRig(a, b)
	// b is selected; the gesture targets unselected a.
	r.selection.Select(KindBlock, []string{"b"}, SelectionReplace)

	r.drag.Arm(a, 50, 50, 0)
	r.drag.PointerMove(70, 50, 0)
	r.drag.PointerUp(70, 50, 0)

	assertRect(t, "a moved", a.Geometry(), Rect{X: 20, Y: 0, Width: 100, Height: 100})
	assertRect(t, "b untouched", b.Geometry(), Rect{X: 200, Y: 0, Width: 100, Height: 100})
}

func TestDragParticipantsFixedAtArm(t *testing.T) {
	a := NewBlock("a", Rect{X: 0, Y: 0, Width: 100, Height: 100})
	b := NewBlock("b", Rect{X: 200, Y: 0, Width: 100, Height: 100})
	r := newDragRig(a, b)
	r.selection.Select(KindBlock, []string{"a"}, SelectionReplace)

	r.drag.Arm(a, 50, 50, 0)
	// Selection grows mid-gesture; the participant set must not.
	r.selection.Select(KindBlock, []string{"b"}, SelectionAppend)
	r.drag.PointerMove(70, 50, 0)
	r.drag.PointerUp(70, 50, 0)

	assertRect(t, "b untouched", b.Geometry(), Rect{X: 200, Y: 0, Width: 100, Height: 100})
}

// --- Camera interaction ---

func TestDragReplaysAfterCameraChange(t *testing.T) {
	a := NewBlock("a", Rect{X: 0, Y: 0, Width: 10, Height: 10})
	r := newDragRig(a)

	r.drag.Arm(a, 5, 5, 0)
	r.drag.PointerMove(20, 5, 0)
	assertRect(t, "before camera move", a.Geometry(), Rect{X: 15, Y: 0, Width: 10, Height: 10})

	// The world shifts under the stationary pointer; the participant must
	// track the pointer's new world position.
	r.camera.Move(-10, 0)
	assertRect(t, "after camera move", a.Geometry(), Rect{X: 25, Y: 0, Width: 10, Height: 10})
}

func TestDragAutopanNearEdge(t *testing.T) {
	a := NewBlock("a", Rect{X: 0, Y: 0, Width: 10, Height: 10})
	r := newDragRig(a)

	r.drag.Arm(a, 5, 5, 0)
	// Drag the pointer deep into the left margin (margin is 48px).
	r.drag.PointerMove(20, 100, 0)

	tickN(r.sched, 5)

	camX := r.camera.State().X
	if camX <= 0 {
		t.Fatalf("camera did not autopan: X = %v", camX)
	}
	// The block keeps tracking the pointer's world position while the
	// world slides: world X of the pointer is (20-camX), start was 5.
	assertNear(t, "block X", a.Geometry().X, 15-camX)
}

func TestDragAutopanStopsAfterRelease(t *testing.T) {
	a := NewBlock("a", Rect{X: 0, Y: 0, Width: 10, Height: 10})
	r := newDragRig(a)

	r.drag.Arm(a, 5, 5, 0)
	r.drag.PointerMove(20, 100, 0)
	tickN(r.sched, 3)
	r.drag.PointerUp(20, 100, 0)

	camX := r.camera.State().X
	tickN(r.sched, 5)
	assertNear(t, "camera X after release", r.camera.State().X, camX)
}

// --- Panic safety ---

// faultyDraggable panics on every drag step.
type faultyDraggable struct {
	stubComponent
	started, ended int
}

func (f *faultyDraggable) IsDraggable() bool             { return true }
func (f *faultyDraggable) HandleDragStart(DragContext)   { f.started++ }
func (f *faultyDraggable) HandleDrag(DragContext)        { panic("faulty participant") }
func (f *faultyDraggable) HandleDragEnd(ctx DragContext) { f.ended++ }

func TestDragPanickingParticipantIsIsolated(t *testing.T) {
	faulty := &faultyDraggable{stubComponent: stubComponent{id: "a-faulty", kind: KindBlock}}
	b := NewBlock("b-block", Rect{X: 0, Y: 0, Width: 100, Height: 100})

	comps := map[string]Component{"a-faulty": faulty, "b-block": b}
	selection := NewSelection(func(_ EntityKind, ids []string) []Component {
		out := make([]Component, 0, len(ids))
		for _, id := range ids {
			if c, ok := comps[id]; ok {
				out = append(out, c)
			}
		}
		return out
	})

	sched := NewScheduler()
	sched.Start()
	camera := NewCamera(sched)
	camera.SetViewportSize(1000, 800)
	settings := DefaultSettings()
	drag := NewDragService(camera, selection, sched, &settings)

	selection.Select(KindBlock, []string{"a-faulty", "b-block"}, SelectionReplace)

	drag.Arm(b, 50, 50, 0)
	drag.PointerMove(60, 50, 0) // leaves the dead zone
	drag.PointerMove(70, 50, 0) // drag step: faulty panics here
	drag.PointerUp(70, 50, 0)

	// The faulty participant panicked on each step, yet its sibling moved
	// and the full lifecycle reached everyone.
	assertRect(t, "sibling", b.Geometry(), Rect{X: 20, Y: 0, Width: 100, Height: 100})
	if faulty.started != 1 || faulty.ended != 1 {
		t.Errorf("faulty lifecycle: started=%d ended=%d, want 1 and 1", faulty.started, faulty.ended)
	}
	if drag.IsDragging() {
		t.Error("service stuck after panicking participant")
	}
}

func TestDragTeardownIdempotent(t *testing.T) {
	a := NewBlock("a", Rect{Width: 50, Height: 50})
	r := newDragRig(a)

	r.drag.Arm(a, 10, 10, 0)
	r.drag.PointerMove(30, 10, 0)
	r.drag.PointerUp(30, 10, 0)
	r.drag.PointerUp(30, 10, 0) // second release: no-op
	r.drag.teardown()           // direct teardown on idle: no-op

	if !r.drag.Arm(a, 10, 10, 0) {
		t.Error("service not reusable after repeated teardown")
	}
}

// --- Lifecycle events ---

func TestDragLifecycleEvents(t *testing.T) {
	a := NewBlock("a", Rect{X: 0, Y: 0, Width: 100, Height: 100})
	r := newDragRig(a)

	var starts, moves, ends int
	var lastCtx DragContext
	r.drag.OnStart(func(DragContext) { starts++ })
	r.drag.OnMove(func(ctx DragContext) { moves++; lastCtx = ctx })
	r.drag.OnEnd(func(ctx DragContext) { ends++; lastCtx = ctx })

	r.drag.Arm(a, 50, 50, 0)
	r.drag.PointerMove(60, 50, 0) // starts the drag
	r.drag.PointerMove(70, 50, 0)
	r.drag.PointerMove(75, 55, 0)
	r.drag.PointerUp(80, 60, 0)

	if starts != 1 || ends != 1 {
		t.Errorf("starts=%d ends=%d, want 1 and 1", starts, ends)
	}
	if moves != 2 {
		t.Errorf("moves=%d, want 2", moves)
	}
	assertNear(t, "final DiffX", lastCtx.DiffX, 30)
	assertNear(t, "final DiffY", lastCtx.DiffY, 10)
	if len(lastCtx.Participants) != 1 {
		t.Errorf("participants = %d, want 1", len(lastCtx.Participants))
	}
}
