package graph

// EntityKind tags the capability class of a scene component. The kind is
// resolved once, at registration time, so queries can filter without
// runtime type inspection.
type EntityKind uint8

const (
	KindBlock      EntityKind = iota // positioned rectangle, draggable
	KindConnection                   // edge between two blocks
	KindAnchor                       // port attached to a block
)

// Component is the contract every hit-testable scene element satisfies.
// The bounding box is in world coordinates and must stay stable within one
// frame; geometry changes are reported to the index via [HitTest.Invalidate].
type Component interface {
	ComponentID() string
	Kind() EntityKind
	HitBox() Rect
	ZOrder() int
}

// Selectable is implemented by components that participate in selection
// buckets. SetSelected is driven by [Selection] only.
type Selectable interface {
	Component
	Selected() bool
	SetSelected(selected bool)
}

// Draggable is implemented by components that can take part in a drag
// gesture. The Handle* callbacks are invoked by [DragService]; a panicking
// callback never prevents the gesture's teardown.
type Draggable interface {
	Component
	IsDraggable() bool
	HandleDragStart(ctx DragContext)
	HandleDrag(ctx DragContext)
	HandleDragEnd(ctx DragContext)
}

// DragContext carries the state of one drag gesture update. All coordinates
// are world-space.
type DragContext struct {
	// StartX, StartY is where the gesture left the dead zone.
	StartX, StartY float64
	// X, Y is the current pointer position.
	X, Y float64
	// DiffX, DiffY is the total offset from the gesture start.
	DiffX, DiffY float64
	// DeltaX, DeltaY is the offset from the previous update.
	DeltaX, DeltaY float64

	// Participants is the fixed set of components moving in this gesture.
	Participants []Draggable

	Modifiers KeyModifiers
}
