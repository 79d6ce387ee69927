package graph

import (
	"fmt"
	"math"
)

// Gesture tuning for the scene-level input pipeline.
const (
	// zoomWheelFactor is the per-wheel-notch scale multiplier.
	zoomWheelFactor = 1.1
	// cameraEdgeGap is the world-unit margin the camera may pan past the
	// content bounds before edge suppression kicks in.
	cameraEdgeGap = 64.0
)

// pointerState tracks the primary pointer across frames.
type pointerState struct {
	down           bool
	button         MouseButton
	startX, startY float64 // screen position at press
	lastX, lastY   float64
	hit            Component
	panning        bool
	panMoved       bool
}

// Scene is the root object of one canvas instance. It owns the scheduler,
// camera, spatial index, selection, and drag service — one set per scene,
// so independent scenes (and tests) stay isolated — plus the registry of
// blocks, connections, and anchors.
//
// The host drives a Scene by calling Start once the viewport size is known
// and Update once per animation frame.
type Scene struct {
	scheduler *Scheduler
	camera    *Camera
	hitTest   *HitTest
	selection *Selection
	drag      *DragService
	settings  Settings

	blocks      map[string]*Block
	blockOrder  []string
	connections map[string]*Connection
	anchors     map[string]*Anchor

	started bool

	pointer     pointerState
	injectQueue []syntheticInputEvent
	// liveInput gates reading hardware input on frames with no injected
	// events. In-package tests disable it to stay fully synthetic.
	liveInput bool

	script *ScriptRunner

	store SceneEventStore
	debug bool
}

// NewScene creates an empty scene with default settings. Call Start before
// Update.
func NewScene() *Scene {
	s := &Scene{
		settings:    DefaultSettings(),
		blocks:      make(map[string]*Block),
		connections: make(map[string]*Connection),
		anchors:     make(map[string]*Anchor),
		liveInput:   true,
	}
	s.scheduler = NewScheduler()
	s.camera = NewCamera(s.scheduler)
	s.hitTest = NewHitTest(s.scheduler)
	s.selection = NewSelection(s.resolveComponents)
	s.drag = NewDragService(s.camera, s.selection, s.scheduler, &s.settings)
	s.drag.SetContentProvider(s.contentOrZero)

	// Forward service-level changes to an attached ECS store.
	s.camera.Subscribe(func(st CameraState) {
		s.emitEvent(SceneEvent{Type: EventCameraChange, Camera: st})
	})
	s.selection.Subscribe(func(d SelectionDiff) {
		s.emitEvent(SceneEvent{Type: EventSelectionChange, Selection: d})
	})
	s.drag.OnStart(func(ctx DragContext) {
		s.emitEvent(SceneEvent{Type: EventDragStart, Drag: ctx})
	})
	s.drag.OnMove(func(ctx DragContext) {
		s.emitEvent(SceneEvent{Type: EventDragUpdate, Drag: ctx})
	})
	s.drag.OnEnd(func(ctx DragContext) {
		s.emitEvent(SceneEvent{Type: EventDragEnd, Drag: ctx})
	})
	return s
}

// --- Service accessors ---

// Scheduler returns the scene's task scheduler.
func (s *Scene) Scheduler() *Scheduler { return s.scheduler }

// Camera returns the scene's camera.
func (s *Scene) Camera() *Camera { return s.camera }

// HitTest returns the scene's spatial index.
func (s *Scene) HitTest() *HitTest { return s.hitTest }

// Selection returns the scene's selection service.
func (s *Scene) Selection() *Selection { return s.selection }

// Drag returns the scene's drag service.
func (s *Scene) Drag() *DragService { return s.drag }

// Settings returns the current behavior settings.
func (s *Scene) Settings() Settings { return s.settings }

// SetSettings replaces the behavior settings. Applies from the next
// gesture.
func (s *Scene) SetSettings(settings Settings) { s.settings = settings }

// SetEventStore attaches an ECS bridge receiving scene events.
func (s *Scene) SetEventStore(store SceneEventStore) { s.store = store }

// SetDebugMode toggles per-frame stderr diagnostics.
func (s *Scene) SetDebugMode(enabled bool) { s.debug = enabled }

// emitEvent forwards one event to the attached store, if any.
func (s *Scene) emitEvent(ev SceneEvent) {
	if s.store != nil {
		s.store.EmitEvent(ev)
	}
}

// --- Lifecycle ---

// Start begins the scene's frame loop with the given viewport size in
// screen pixels. Starting without known viewport dimensions is the one
// fatal precondition of the engine and is surfaced as an error rather than
// recovered internally. Idempotent once started.
func (s *Scene) Start(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("graph: viewport size must be known before Start (got %gx%g)", width, height)
	}
	if s.started {
		s.camera.SetViewportSize(width, height)
		return nil
	}
	s.camera.SetViewportSize(width, height)
	s.scheduler.Start()
	s.started = true
	return nil
}

// Started reports whether Start has succeeded.
func (s *Scene) Started() bool { return s.started }

// Stop halts the scheduler and tears down any in-flight gesture.
// Idempotent.
func (s *Scene) Stop() {
	if !s.started {
		return
	}
	s.drag.teardown()
	s.camera.StopAnimation()
	s.scheduler.Stop()
	s.started = false
}

// Update runs one frame: it consumes one injected synthetic event (or, if
// none is queued, reads live hardware input), routes it through the pointer
// pipeline, then ticks the scheduler. A no-op before Start.
func (s *Scene) Update() {
	if !s.started {
		return
	}
	if s.script != nil {
		s.script.step(s)
	}
	if len(s.injectQueue) > 0 {
		ev := s.injectQueue[0]
		copy(s.injectQueue, s.injectQueue[1:])
		s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
		s.processSynthetic(ev)
	} else if s.liveInput {
		s.processLiveInput()
	}
	s.scheduler.Tick()
	if s.debug {
		s.debugLog()
	}
}

// --- Component registry ---

// resolveComponents is the Selection's id resolver.
func (s *Scene) resolveComponents(kind EntityKind, ids []string) []Component {
	out := make([]Component, 0, len(ids))
	for _, id := range ids {
		switch kind {
		case KindBlock:
			if b, ok := s.blocks[id]; ok {
				out = append(out, b)
			}
		case KindConnection:
			if c, ok := s.connections[id]; ok {
				out = append(out, c)
			}
		case KindAnchor:
			if a, ok := s.anchors[id]; ok {
				out = append(out, a)
			}
		}
	}
	return out
}

// AddBlock creates a block, registers it with the spatial index, and
// returns it. Adding an id that already exists replaces the old block's
// geometry instead of duplicating it.
func (s *Scene) AddBlock(id string, geometry Rect) *Block {
	if existing, ok := s.blocks[id]; ok {
		existing.SetGeometry(geometry)
		return existing
	}
	b := NewBlock(id, geometry)
	b.index = s.hitTest
	s.blocks[id] = b
	s.blockOrder = append(s.blockOrder, id)
	s.hitTest.Register(b)
	return b
}

// BlockByID returns a block or nil.
func (s *Scene) BlockByID(id string) *Block { return s.blocks[id] }

// Blocks returns all blocks in insertion order.
func (s *Scene) Blocks() []*Block {
	out := make([]*Block, 0, len(s.blockOrder))
	for _, id := range s.blockOrder {
		out = append(out, s.blocks[id])
	}
	return out
}

// RemoveBlock unregisters a block along with the connections and anchors
// attached to it, and discards them all from the selection. Removing an
// unknown id is a no-op.
func (s *Scene) RemoveBlock(id string) {
	b, ok := s.blocks[id]
	if !ok {
		return
	}
	for cid, c := range s.connections {
		if c.source == b || c.target == b {
			s.RemoveConnection(cid)
		}
	}
	for aid, a := range s.anchors {
		if a.block == b {
			s.RemoveAnchor(aid)
		}
	}
	s.hitTest.Unregister(b)
	s.selection.Discard(KindBlock, id)
	delete(s.blocks, id)
	for i, oid := range s.blockOrder {
		if oid == id {
			s.blockOrder = append(s.blockOrder[:i], s.blockOrder[i+1:]...)
			break
		}
	}
}

// AddConnection creates a connection between two existing blocks and
// registers it with the spatial index.
func (s *Scene) AddConnection(id, sourceID, targetID string) (*Connection, error) {
	source, ok := s.blocks[sourceID]
	if !ok {
		return nil, fmt.Errorf("graph: connection %q: unknown source block %q", id, sourceID)
	}
	target, ok := s.blocks[targetID]
	if !ok {
		return nil, fmt.Errorf("graph: connection %q: unknown target block %q", id, targetID)
	}
	if existing, ok := s.connections[id]; ok {
		return existing, nil
	}
	c := NewConnection(id, source, target)
	c.attach(s.hitTest)
	s.connections[id] = c
	s.hitTest.Register(c)
	return c, nil
}

// ConnectionByID returns a connection or nil.
func (s *Scene) ConnectionByID(id string) *Connection { return s.connections[id] }

// RemoveConnection unregisters a connection. Unknown ids are a no-op.
func (s *Scene) RemoveConnection(id string) {
	c, ok := s.connections[id]
	if !ok {
		return
	}
	c.detach()
	s.hitTest.Unregister(c)
	s.selection.Discard(KindConnection, id)
	delete(s.connections, id)
}

// AddAnchor creates an anchor on an existing block and registers it with
// the spatial index.
func (s *Scene) AddAnchor(id, blockID string, offset Point, size float64) (*Anchor, error) {
	b, ok := s.blocks[blockID]
	if !ok {
		return nil, fmt.Errorf("graph: anchor %q: unknown block %q", id, blockID)
	}
	if existing, ok := s.anchors[id]; ok {
		return existing, nil
	}
	a := NewAnchor(id, b, offset, size)
	a.attach(s.hitTest)
	s.anchors[id] = a
	s.hitTest.Register(a)
	return a, nil
}

// AnchorByID returns an anchor or nil.
func (s *Scene) AnchorByID(id string) *Anchor { return s.anchors[id] }

// RemoveAnchor unregisters an anchor. Unknown ids are a no-op.
func (s *Scene) RemoveAnchor(id string) {
	a, ok := s.anchors[id]
	if !ok {
		return
	}
	a.detach()
	s.hitTest.Unregister(a)
	s.selection.Discard(KindAnchor, id)
	delete(s.anchors, id)
}

// ContentRect returns the world-space union of all block boxes and whether
// the scene has any content.
func (s *Scene) ContentRect() (Rect, bool) {
	if len(s.blockOrder) == 0 {
		return Rect{}, false
	}
	r := s.blocks[s.blockOrder[0]].Geometry()
	for _, id := range s.blockOrder[1:] {
		r = r.Union(s.blocks[id].Geometry())
	}
	return r, true
}

// contentOrZero adapts ContentRect for the drag service; with no content
// the zero rect plus the gap still bounds autopanning near the origin.
func (s *Scene) contentOrZero() Rect {
	r, _ := s.ContentRect()
	return r
}

// --- Pointer pipeline ---

// processPointer runs the pointer state machine for one sampled position.
// Press and release edges are detected against the previous frame.
func (s *Scene) processPointer(px, py float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &s.pointer

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = px, py
		ps.hit = nil
		ps.panning = false
		ps.panMoved = false

		if button == MouseButtonLeft {
			wx, wy := s.camera.ScreenToWorld(px, py)
			hits := s.hitTest.TestPoint(Point{X: wx, Y: wy})
			if len(hits) > 0 {
				ps.hit = hits[0]
			}
		}
		if ps.hit != nil {
			s.hitTest.BringToFront(ps.hit)
			s.applyPressSelection(ps.hit, mods)
			if drg, ok := ps.hit.(Draggable); ok {
				s.drag.Arm(drg, px, py, mods)
			}
		} else if s.settings.CanDragCamera {
			// Left on empty canvas, or any middle/right press, pans.
			ps.panning = true
		}

	case !pressed && ps.down:
		wasDragging := s.drag.IsDragging()
		s.drag.PointerUp(px, py, mods)
		if !wasDragging {
			if ps.hit != nil {
				s.applyClickSelection(ps.hit, mods)
				wx, wy := s.camera.ScreenToWorld(px, py)
				s.emitEvent(SceneEvent{
					Type: EventClick, ComponentID: ps.hit.ComponentID(),
					WorldX: wx, WorldY: wy, Modifiers: mods,
				})
			} else if ps.panning && !ps.panMoved && ps.button == MouseButtonLeft {
				// Click on empty canvas clears every bucket.
				s.selection.ClearAll()
				wx, wy := s.camera.ScreenToWorld(px, py)
				s.emitEvent(SceneEvent{
					Type: EventClick, WorldX: wx, WorldY: wy, Modifiers: mods,
				})
			}
		}
		ps.down = false
		ps.hit = nil
		ps.panning = false
		ps.panMoved = false

	case pressed && ps.down:
		if px != ps.lastX || py != ps.lastY {
			if ps.panning {
				dx := px - ps.lastX
				dy := py - ps.lastY
				if content, ok := s.ContentRect(); ok {
					s.camera.MoveWithEdges(dx, dy, content, cameraEdgeGap)
				} else {
					s.camera.Move(dx, dy)
				}
				ps.panMoved = true
			} else {
				s.drag.PointerMove(px, py, mods)
			}
		}
	}

	ps.lastX, ps.lastY = px, py
}

// applyPressSelection adjusts selection on pointer-down, before the drag
// service captures its participant set. Shift appends, Ctrl/Meta toggles;
// an unmodified press on an unselected component replaces the selection
// across every bucket, while a press on an already-selected component
// leaves the group intact so it can be dragged together.
func (s *Scene) applyPressSelection(hit Component, mods KeyModifiers) {
	if _, ok := hit.(Selectable); !ok {
		return
	}
	kind := hit.Kind()
	id := hit.ComponentID()
	switch {
	case mods&ModShift != 0:
		s.selection.Select(kind, []string{id}, SelectionAppend)
	case mods&(ModCtrl|ModMeta) != 0:
		s.selection.Select(kind, []string{id}, SelectionToggle)
	default:
		if !s.selection.IsSelected(kind, id) {
			s.replaceSelectionWith(kind, id)
		}
	}
}

// applyClickSelection runs on release without a drag: an unmodified click
// on a member of a multi-selection collapses the selection to it.
func (s *Scene) applyClickSelection(hit Component, mods KeyModifiers) {
	if _, ok := hit.(Selectable); !ok {
		return
	}
	if mods&(ModShift|ModCtrl|ModMeta) != 0 {
		return
	}
	s.replaceSelectionWith(hit.Kind(), hit.ComponentID())
}

// replaceSelectionWith clears every other bucket and makes the kind's
// bucket exactly {id}.
func (s *Scene) replaceSelectionWith(kind EntityKind, id string) {
	for _, other := range []EntityKind{KindBlock, KindConnection, KindAnchor} {
		if other != kind {
			s.selection.Clear(other)
		}
	}
	s.selection.Select(kind, []string{id}, SelectionReplace)
}

// processWheel zooms at the cursor. Each wheel notch multiplies the scale
// by a fixed factor; the camera clamps the result.
func (s *Scene) processWheel(px, py, wheelY float64) {
	if wheelY == 0 || !s.settings.CanZoomCamera {
		return
	}
	target := s.camera.State().Scale * math.Pow(zoomWheelFactor, wheelY)
	s.camera.Zoom(px, py, target)
}
