package graph

import (
	"fmt"
	"math"
	"os"
)

// DragScope is the settings-layer flag deciding which components a gesture
// may move.
type DragScope uint8

const (
	// DragScopeAll drags the selection as a group when the target is
	// selected, or the single target otherwise.
	DragScopeAll DragScope = iota
	// DragScopeOnlySelected drags selected components only; a gesture on
	// an unselected target is aborted.
	DragScopeOnlySelected
	// DragScopeNone disables dragging entirely.
	DragScopeNone
)

// dragPhase is the gesture state machine position.
type dragPhase uint8

const (
	dragIdle     dragPhase = iota
	dragArmed              // pointer down on a draggable, awaiting first move
	dragDragging           // past the dead zone, participants moving
)

// DragState is a snapshot of the active gesture for outside observers.
type DragState struct {
	Dragging     bool
	Participants []Draggable
	Kinds        []EntityKind
	Multiple     bool
	Homogeneous  bool
}

// Default gesture tuning.
const (
	defaultDragDeadZone  = 4.0  // screen px of travel before a drag starts
	defaultAutopanMargin = 48.0 // screen px from a viewport edge
	defaultAutopanSpeed  = 15.0 // max screen px per frame
	defaultAutopanGap    = 64.0 // world-unit margin past content for MoveWithEdges
)

// DragService orchestrates the full lifecycle of one drag gesture across
// one or many components: Idle, Armed on pointer-down, Dragging past the
// dead zone, back to Idle on release. At most one gesture is active per
// service; the participant set is fixed at Armed time. While Dragging the
// service autopans the camera near viewport edges and replays a synthetic
// update after every camera change so participants keep tracking the
// pointer even while the world moves underneath it.
type DragService struct {
	camera    *Camera
	selection *Selection
	sched     *Scheduler
	settings  *Settings

	phase        dragPhase
	participants []Draggable
	kinds        []EntityKind
	modifiers    KeyModifiers

	// World-space gesture coordinates.
	startX, startY float64
	prevX, prevY   float64
	curX, curY     float64

	// Screen-space positions: where the gesture was armed (dead zone
	// origin) and the last pointer position (synthetic update source).
	armX, armY   float64
	lastX, lastY float64

	deadZone      float64
	autopanMargin float64
	autopanSpeed  float64
	autopanGap    float64

	cameraUnsub func()
	autopan     TaskHandle
	autopanOn   bool

	// content supplies the rectangle edge-aware autopanning is clamped
	// against. Nil means unclamped panning.
	content func() Rect

	// Gesture lifecycle emitters, fired after participants are notified.
	started Emitter[DragContext]
	moved   Emitter[DragContext]
	ended   Emitter[DragContext]
}

// NewDragService wires a drag orchestrator to its collaborators. settings
// is read at Armed time; it may be swapped between gestures.
func NewDragService(camera *Camera, selection *Selection, sched *Scheduler, settings *Settings) *DragService {
	return &DragService{
		camera:        camera,
		selection:     selection,
		sched:         sched,
		settings:      settings,
		deadZone:      defaultDragDeadZone,
		autopanMargin: defaultAutopanMargin,
		autopanSpeed:  defaultAutopanSpeed,
		autopanGap:    defaultAutopanGap,
	}
}

// SetDeadZone sets the minimum screen-space travel before Armed becomes
// Dragging.
func (d *DragService) SetDeadZone(px float64) {
	d.deadZone = px
}

// SetContentProvider supplies the world rectangle autopanning is clamped
// against (typically the scene's content bounds).
func (d *DragService) SetContentProvider(fn func() Rect) {
	d.content = fn
}

// OnStart registers a listener fired after participants receive
// HandleDragStart. Returns an unsubscribe function.
func (d *DragService) OnStart(fn func(DragContext)) func() {
	return d.started.Listen(func(_ *EventContext, ctx DragContext) { fn(ctx) })
}

// OnMove registers a listener fired after participants receive HandleDrag.
func (d *DragService) OnMove(fn func(DragContext)) func() {
	return d.moved.Listen(func(_ *EventContext, ctx DragContext) { fn(ctx) })
}

// OnEnd registers a listener fired after participants receive
// HandleDragEnd.
func (d *DragService) OnEnd(fn func(DragContext)) func() {
	return d.ended.Listen(func(_ *EventContext, ctx DragContext) { fn(ctx) })
}

// IsDragging reports whether a gesture is past the dead zone.
func (d *DragService) IsDragging() bool {
	return d.phase == dragDragging
}

// IsArmed reports whether a pointer-down captured a candidate gesture that
// has not yet moved.
func (d *DragService) IsArmed() bool {
	return d.phase == dragArmed
}

// Grabbing reports whether the host should show a grabbing cursor.
func (d *DragService) Grabbing() bool {
	return d.phase == dragDragging
}

// State returns a snapshot of the active gesture. Participants is nil when
// idle.
func (d *DragService) State() DragState {
	st := DragState{
		Dragging:     d.phase == dragDragging,
		Participants: d.participants,
		Kinds:        d.kinds,
		Multiple:     len(d.participants) > 1,
		Homogeneous:  len(d.kinds) <= 1,
	}
	return st
}

// Arm captures a candidate gesture for a pointer-down on target at the
// given screen position. No component is mutated yet. Reports whether the
// gesture was armed; it is refused while another gesture is in progress,
// when dragging is disabled, when the target is not draggable, or when the
// drag scope is ONLY_SELECTED and the target is not selected.
func (d *DragService) Arm(target Draggable, screenX, screenY float64, mods KeyModifiers) bool {
	if d.phase != dragIdle {
		return false
	}
	scope := DragScopeAll
	if d.settings != nil {
		if !d.settings.CanDragBlocks {
			return false
		}
		scope = d.settings.DragScope
	}
	if scope == DragScopeNone || target == nil || !target.IsDraggable() {
		return false
	}

	participants := d.collectParticipants(target, scope)
	if len(participants) == 0 {
		return false
	}

	d.phase = dragArmed
	d.participants = participants
	d.kinds = collectKinds(participants)
	d.modifiers = mods
	d.armX, d.armY = screenX, screenY
	d.lastX, d.lastY = screenX, screenY
	return true
}

// collectParticipants decides the fixed participant set: the whole
// selection when the target is a member of it, the target alone otherwise.
// Returns nil when the scope forbids the gesture.
func (d *DragService) collectParticipants(target Draggable, scope DragScope) []Draggable {
	targetSelected := d.selection != nil &&
		d.selection.IsSelected(target.Kind(), target.ComponentID())

	if !targetSelected {
		if scope == DragScopeOnlySelected {
			return nil
		}
		return []Draggable{target}
	}

	var out []Draggable
	for _, kind := range []EntityKind{KindBlock, KindConnection, KindAnchor} {
		for _, c := range d.selection.Components(kind) {
			if drg, ok := c.(Draggable); ok && drg.IsDraggable() {
				out = append(out, drg)
			}
		}
	}
	if len(out) == 0 {
		// Selection held nothing draggable; fall back to the target.
		out = []Draggable{target}
	}
	return out
}

// collectKinds returns the distinct entity kinds among participants.
func collectKinds(participants []Draggable) []EntityKind {
	var kinds []EntityKind
	seen := [8]bool{}
	for _, p := range participants {
		k := p.Kind()
		if int(k) < len(seen) && !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// PointerMove advances the gesture with a new pointer position. While
// Armed it converts to Dragging once the dead zone is exceeded; while
// Dragging it delivers a world-space diff to every participant.
func (d *DragService) PointerMove(screenX, screenY float64, mods KeyModifiers) {
	switch d.phase {
	case dragIdle:
		return
	case dragArmed:
		dx := screenX - d.armX
		dy := screenY - d.armY
		if math.Sqrt(dx*dx+dy*dy) <= d.deadZone {
			return
		}
		d.begin(screenX, screenY, mods)
	case dragDragging:
		d.lastX, d.lastY = screenX, screenY
		d.modifiers = mods
		d.update()
	}
}

// begin converts Armed to Dragging: records start/previous/current world
// coordinates, subscribes to camera changes, enables autopanning, and
// notifies every participant's HandleDragStart.
func (d *DragService) begin(screenX, screenY float64, mods KeyModifiers) {
	d.phase = dragDragging
	d.modifiers = mods
	d.startX, d.startY = d.camera.ScreenToWorld(d.armX, d.armY)
	d.prevX, d.prevY = d.startX, d.startY
	d.curX, d.curY = d.camera.ScreenToWorld(screenX, screenY)
	d.lastX, d.lastY = screenX, screenY

	// Camera movement during the gesture (autopan or anything else) must
	// replay a synthetic update from the last pointer position.
	d.cameraUnsub = d.camera.Subscribe(func(CameraState) {
		if d.phase == dragDragging {
			d.update()
		}
	})
	d.autopan = d.sched.Add(d.autopanStep, TaskOptions{
		Priority:      PriorityHighest,
		FrameInterval: 1,
	})
	d.autopanOn = true

	ctx := d.context()
	for _, p := range d.participants {
		guard(func() { p.HandleDragStart(ctx) })
	}
	d.started.Emit(ctx)
}

// update recomputes world coordinates from the last pointer position and
// delivers a drag step to every participant.
func (d *DragService) update() {
	d.curX, d.curY = d.camera.ScreenToWorld(d.lastX, d.lastY)
	ctx := d.context()
	for _, p := range d.participants {
		guard(func() { p.HandleDrag(ctx) })
	}
	d.prevX, d.prevY = d.curX, d.curY
	d.moved.Emit(ctx)
}

// context builds the DragContext for the current coordinates.
func (d *DragService) context() DragContext {
	return DragContext{
		StartX:       d.startX,
		StartY:       d.startY,
		X:            d.curX,
		Y:            d.curY,
		DiffX:        d.curX - d.startX,
		DiffY:        d.curY - d.startY,
		DeltaX:       d.curX - d.prevX,
		DeltaY:       d.curY - d.prevY,
		Participants: d.participants,
		Modifiers:    d.modifiers,
	}
}

// PointerUp ends the gesture. From Armed (no movement) it only releases
// captured state; from Dragging it notifies every participant's
// HandleDragEnd. Teardown is unconditional: it runs even if a participant
// callback panics, and calling PointerUp while Idle is a no-op.
func (d *DragService) PointerUp(screenX, screenY float64, mods KeyModifiers) {
	switch d.phase {
	case dragIdle:
		return
	case dragArmed:
		d.teardown()
		return
	}

	d.lastX, d.lastY = screenX, screenY
	d.modifiers = mods
	d.curX, d.curY = d.camera.ScreenToWorld(screenX, screenY)

	defer d.teardown()
	ctx := d.context()
	for _, p := range d.participants {
		guard(func() { p.HandleDragEnd(ctx) })
	}
	d.ended.Emit(ctx)
}

// teardown releases everything a gesture captured. Idempotent and safe to
// call from any phase, including a gesture that never left Armed.
func (d *DragService) teardown() {
	if d.cameraUnsub != nil {
		d.cameraUnsub()
		d.cameraUnsub = nil
	}
	if d.autopanOn {
		d.sched.Remove(d.autopan)
		d.autopan = TaskHandle{}
		d.autopanOn = false
	}
	d.phase = dragIdle
	d.participants = nil
	d.kinds = nil
	d.modifiers = 0
	d.startX, d.startY = 0, 0
	d.prevX, d.prevY = 0, 0
	d.curX, d.curY = 0, 0
}

// autopanStep runs once per frame while Dragging. Near a viewport edge it
// pans the camera proportionally to how deep the pointer sits in the
// margin; the camera-change subscription then replays the drag update.
func (d *DragService) autopanStep() {
	if d.phase != dragDragging {
		return
	}
	st := d.camera.State()
	var dx, dy float64

	left := d.lastX - st.Insets.Left
	right := st.Width - st.Insets.Right - d.lastX
	top := d.lastY - st.Insets.Top
	bottom := st.Height - st.Insets.Bottom - d.lastY

	if left < d.autopanMargin {
		dx = d.autopanSpeed * (1 - left/d.autopanMargin)
	} else if right < d.autopanMargin {
		dx = -d.autopanSpeed * (1 - right/d.autopanMargin)
	}
	if top < d.autopanMargin {
		dy = d.autopanSpeed * (1 - top/d.autopanMargin)
	} else if bottom < d.autopanMargin {
		dy = -d.autopanSpeed * (1 - bottom/d.autopanMargin)
	}
	if dx == 0 && dy == 0 {
		return
	}
	if d.content != nil {
		d.camera.MoveWithEdges(dx, dy, d.content(), d.autopanGap)
	} else {
		d.camera.Move(dx, dy)
	}
}

// guard runs fn, absorbing a panic so gesture delivery and teardown
// continue past a faulty participant.
func guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[graph] drag callback panic: %v\n", r)
		}
	}()
	fn()
}
