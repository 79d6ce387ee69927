package graph

// syntheticInputEvent is a single injected input sample. Screen coordinates
// are used and converted through the camera exactly like live input.
type syntheticInputEvent struct {
	screenX, screenY float64
	pressed          bool
	button           MouseButton
	mods             KeyModifiers
	wheel            float64
	isWheel          bool
}

// processSynthetic routes one injected event through the same pipeline as
// live input.
func (s *Scene) processSynthetic(ev syntheticInputEvent) {
	if ev.isWheel {
		s.processWheel(ev.screenX, ev.screenY, ev.wheel)
		return
	}
	s.processPointer(ev.screenX, ev.screenY, ev.pressed, ev.button, ev.mods)
}

// InjectPress queues a pointer press at the given screen coordinates (left
// button). The event is consumed on the next Update call.
func (s *Scene) InjectPress(x, y float64) {
	s.InjectPressMods(x, y, 0)
}

// InjectPressMods is InjectPress with keyboard modifiers held.
func (s *Scene) InjectPressMods(x, y float64, mods KeyModifiers) {
	s.injectQueue = append(s.injectQueue, syntheticInputEvent{
		screenX: x, screenY: y,
		pressed: true,
		button:  MouseButtonLeft,
		mods:    mods,
	})
}

// InjectMove queues a pointer move with the button held down. Use between
// InjectPress and InjectRelease to simulate a drag.
func (s *Scene) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticInputEvent{
		screenX: x, screenY: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.InjectReleaseMods(x, y, 0)
}

// InjectReleaseMods is InjectRelease with keyboard modifiers held.
func (s *Scene) InjectReleaseMods(x, y float64, mods KeyModifiers) {
	s.injectQueue = append(s.injectQueue, syntheticInputEvent{
		screenX: x, screenY: y,
		pressed: false,
		button:  MouseButtonLeft,
		mods:    mods,
	})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectClickMods is InjectClick with keyboard modifiers held.
func (s *Scene) InjectClickMods(x, y float64, mods KeyModifiers) {
	s.InjectPressMods(x, y, mods)
	s.InjectReleaseMods(x, y, mods)
}

// InjectDrag queues a full drag gesture: press at (fromX, fromY), the given
// number of interpolated move steps, then release at (toX, toY). Consumes
// steps+2 frames.
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, steps int) {
	if steps < 1 {
		steps = 1
	}
	s.InjectPress(fromX, fromY)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel event at the given screen coordinates.
// Positive dy zooms in by one notch per unit.
func (s *Scene) InjectWheel(x, y, dy float64) {
	s.injectQueue = append(s.injectQueue, syntheticInputEvent{
		screenX: x, screenY: y,
		wheel:   dy,
		isWheel: true,
	})
}

// PendingInput reports the number of injected events not yet consumed.
func (s *Scene) PendingInput() int {
	return len(s.injectQueue)
}

// RunInjected calls Update until the injected queue is drained, plus the
// given number of settle frames for scheduler-batched work. Test helper.
func (s *Scene) RunInjected(settleFrames int) {
	for len(s.injectQueue) > 0 {
		s.Update()
	}
	for i := 0; i < settleFrames; i++ {
		s.Update()
	}
}
