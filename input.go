package graph

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// processLiveInput samples hardware mouse, wheel, and modifier state once
// per frame and feeds the pointer pipeline. Touch is out of scope for the
// editor surface; a trackpad reports through the mouse APIs.
func (s *Scene) processLiveInput() {
	mods := readModifiers()

	mx, my := ebiten.CursorPosition()
	px, py := float64(mx), float64(my)

	// Wheel first: zoom anchors at the cursor position of the same frame.
	_, wheelY := ebiten.Wheel()
	s.processWheel(px, py, wheelY)

	// If the pointer is already down, keep the button captured at press
	// time so a second button mid-gesture cannot change the interaction.
	var pressed bool
	button := s.pointer.button
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		if !s.pointer.down {
			switch {
			case left:
				button = MouseButtonLeft
			case right:
				button = MouseButtonRight
			default:
				button = MouseButtonMiddle
			}
		}
	}

	s.processPointer(px, py, pressed, button, mods)
}
