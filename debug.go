package graph

import (
	"fmt"
	"os"
)

// debugLog prints one line of per-frame state to stderr. Enabled with
// Scene.SetDebugMode.
func (s *Scene) debugLog() {
	st := s.camera.State()
	_, _ = fmt.Fprintf(os.Stderr,
		"[graph] cam (%.0f,%.0f) x%.2f | components: %d | selected blocks: %d | dragging: %v | queued input: %d\n",
		st.X, st.Y, st.Scale,
		s.hitTest.Len(),
		len(s.selection.IDs(KindBlock)),
		s.drag.IsDragging(),
		len(s.injectQueue),
	)
}
