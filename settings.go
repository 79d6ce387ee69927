package graph

// Settings is the scene-level behavior configuration read by the input
// pipeline. DragScope is consulted by [DragService] at Armed time; the
// camera flags gate the pan and zoom input handlers. Swap it with
// [Scene.SetSettings]; changes apply to the next gesture.
type Settings struct {
	// DragScope decides which components a drag gesture may move.
	DragScope DragScope
	// CanDragBlocks enables component drag gestures at all; false refuses
	// every Arm regardless of scope.
	CanDragBlocks bool
	// CanDragCamera enables panning by dragging empty canvas.
	CanDragCamera bool
	// CanZoomCamera enables wheel zoom at the cursor.
	CanZoomCamera bool
}

// DefaultSettings returns the permissive defaults: group dragging, camera
// panning, and wheel zoom all enabled.
func DefaultSettings() Settings {
	return Settings{
		DragScope:     DragScopeAll,
		CanDragBlocks: true,
		CanDragCamera: true,
		CanZoomCamera: true,
	}
}
