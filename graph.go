package graph

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// SceneEventType identifies a kind of scene-level event forwarded to an
// attached [SceneEventStore].
type SceneEventType uint8

const (
	EventCameraChange    SceneEventType = iota // camera state committed
	EventSelectionChange                       // selection bucket changed
	EventDragStart                             // drag gesture left the dead zone
	EventDragUpdate                            // drag gesture moved
	EventDragEnd                               // drag gesture released
	EventClick                                 // press then release without dragging
)

// SceneEvent carries scene-level event data for the ECS bridge.
// Only the fields matching Type are populated.
type SceneEvent struct {
	Type SceneEventType

	// Camera fields (valid for EventCameraChange)
	Camera CameraState

	// Selection fields (valid for EventSelectionChange)
	Selection SelectionDiff

	// Drag fields (valid for EventDragStart, EventDragUpdate, EventDragEnd)
	Drag DragContext

	// Click fields (valid for EventClick); ComponentID is empty for a click
	// on empty canvas.
	ComponentID string
	WorldX      float64
	WorldY      float64
	Modifiers   KeyModifiers
}

// SceneEventStore is the interface for optional ECS integration.
// When set on a Scene, scene events are forwarded to the ECS.
type SceneEventStore interface {
	EmitEvent(event SceneEvent)
}
