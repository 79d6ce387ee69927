package graph

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Insets are screen-space margins reserved by overlay UI (side panels,
// toolbars). They shrink the visible viewport used for centering and
// fitting without moving the camera's raw offset.
type Insets struct {
	Left, Right, Top, Bottom float64
}

// CameraState is the full camera snapshot. X and Y are the screen-space
// offset of the world origin; Scale maps world units to screen pixels:
//
//	screen = world*Scale + (X, Y)
//
// The Relative* fields are the inverse-scaled viewport in world space.
// They are derived: recomputed on every commit and never settable by
// callers.
type CameraState struct {
	X, Y          float64
	Width, Height float64

	Scale    float64
	ScaleMin float64
	ScaleMax float64

	RelativeX      float64
	RelativeY      float64
	RelativeWidth  float64
	RelativeHeight float64

	Insets Insets
}

// VisibleWorldRect returns the viewport in world space.
func (s CameraState) VisibleWorldRect() Rect {
	return Rect{
		X:      s.RelativeX,
		Y:      s.RelativeY,
		Width:  s.RelativeWidth,
		Height: s.RelativeHeight,
	}
}

// visibleCenter returns the screen-space center of the inset-adjusted
// visible area.
func (s CameraState) visibleCenter() (cx, cy float64) {
	cx = s.Insets.Left + (s.Width-s.Insets.Left-s.Insets.Right)/2
	cy = s.Insets.Top + (s.Height-s.Insets.Top-s.Insets.Bottom)/2
	return
}

// ScaleLevel is a discrete rendering-fidelity tier derived from camera
// scale. Renderers switch between simplified and detailed visuals on it.
type ScaleLevel uint8

const (
	ScaleLevelCoarse   ScaleLevel = iota // far out: outlines only
	ScaleLevelMedium                     // mid zoom: schematic detail
	ScaleLevelDetailed                   // close up: full detail
)

// Scale thresholds between detail tiers.
const (
	scaleLevelMediumMin   = 0.25
	scaleLevelDetailedMin = 0.65
)

// ScaleLevelFor maps a continuous scale value to a detail tier.
// Monotonic in scale.
func ScaleLevelFor(scale float64) ScaleLevel {
	switch {
	case scale < scaleLevelMediumMin:
		return ScaleLevelCoarse
	case scale < scaleLevelDetailedMin:
		return ScaleLevelMedium
	default:
		return ScaleLevelDetailed
	}
}

// Default scale clamp range.
const (
	defaultScaleMin = 0.01
	defaultScaleMax = 4.0
)

// cameraAnim holds active tweens for an animated camera move.
type cameraAnim struct {
	tweenX, tweenY, tweenScale *gween.Tween
	handle                     TaskHandle
}

// animDT is the fixed per-frame tween step. The engine is frame-paced, not
// wall-clock paced, matching the scheduler's frame counters.
const animDT = 1.0 / 60.0

// Camera holds viewport position, scale, and insets, and converts between
// screen and world coordinates. All mutation funnels through one commit
// path that first offers the prospective state through a cancelable
// camera-change event: a listener may veto the change (e.g. to clamp pan at
// content edges), in which case the mutation and the derived-field
// recompute are skipped entirely.
type Camera struct {
	state   CameraState
	changed Emitter[CameraState]
	signal  *Signal[CameraState]

	// sched drives animated moves and is optional: with a nil scheduler
	// AnimateTo snaps to the target immediately.
	sched *Scheduler
	anim  *cameraAnim
}

// NewCamera creates a camera at the origin with scale 1 and the default
// clamp range. sched may be nil if animated moves are not needed.
func NewCamera(sched *Scheduler) *Camera {
	c := &Camera{sched: sched}
	c.state = derive(CameraState{
		Scale:    1,
		ScaleMin: defaultScaleMin,
		ScaleMax: defaultScaleMax,
	})
	c.signal = NewSignal(c.state)
	return c
}

// State returns the current camera snapshot.
func (c *Camera) State() CameraState {
	return c.state
}

// OnChange registers a cancelable listener fired with the prospective state
// before each commit. PreventDefault vetoes the mutation. Returns an
// unsubscribe function.
func (c *Camera) OnChange(fn func(*EventContext, CameraState)) func() {
	return c.changed.Listen(fn)
}

// Subscribe registers a listener fired with the committed state after each
// successful mutation. Returns an unsubscribe function.
func (c *Camera) Subscribe(fn func(CameraState)) func() {
	return c.signal.Subscribe(fn)
}

// derive recomputes the Relative* fields from the primary ones.
func derive(s CameraState) CameraState {
	s.Scale = clamp(s.Scale, s.ScaleMin, s.ScaleMax)
	s.RelativeX = -s.X / s.Scale
	s.RelativeY = -s.Y / s.Scale
	s.RelativeWidth = s.Width / s.Scale
	s.RelativeHeight = s.Height / s.Scale
	return s
}

// commit offers next through the camera-change event and, unless vetoed,
// installs it and notifies subscribers. Reports whether the state changed.
func (c *Camera) commit(next CameraState) bool {
	next = derive(next)
	if !c.changed.Emit(next) {
		return false
	}
	c.state = next
	c.signal.Set(next)
	return true
}

// Set merges a mutation into the state. mutate receives a copy of the
// current state; the Relative* fields it leaves behind are ignored and
// recomputed. Reports whether the change was committed (a camera-change
// listener may veto it).
func (c *Camera) Set(mutate func(*CameraState)) bool {
	next := c.state
	mutate(&next)
	return c.commit(next)
}

// SetViewportSize sets the viewport dimensions in screen pixels.
func (c *Camera) SetViewportSize(width, height float64) bool {
	return c.Set(func(s *CameraState) {
		s.Width = width
		s.Height = height
	})
}

// SetScaleLimits sets the clamp range applied to every scale change.
// The current scale is re-clamped immediately.
func (c *Camera) SetScaleLimits(min, max float64) bool {
	return c.Set(func(s *CameraState) {
		s.ScaleMin = min
		s.ScaleMax = max
	})
}

// Move translates the camera by screen-space deltas, truncated to whole
// pixels.
func (c *Camera) Move(dx, dy float64) bool {
	dx = math.Trunc(dx)
	dy = math.Trunc(dy)
	if dx == 0 && dy == 0 {
		return false
	}
	return c.Set(func(s *CameraState) {
		s.X += dx
		s.Y += dy
	})
}

// MoveWithEdges is Move with directional suppression against a content
// rectangle: an axis stops moving once the viewport's relative edge would
// cross beyond content plus the gap margin in that direction. Movement back
// toward the content, and the orthogonal axis, stay free.
func (c *Camera) MoveWithEdges(dx, dy float64, content Rect, gap float64) bool {
	st := c.state
	dx = math.Trunc(dx)
	dy = math.Trunc(dy)

	// The camera offset and the relative viewport move in opposite
	// directions: positive dx slides the view toward world-left.
	if dx != 0 {
		nextRelX := -(st.X + dx) / st.Scale
		if dx > 0 && nextRelX < content.X-gap {
			dx = 0
		}
		if dx < 0 && nextRelX+st.RelativeWidth > content.X+content.Width+gap {
			dx = 0
		}
	}
	if dy != 0 {
		nextRelY := -(st.Y + dy) / st.Scale
		if dy > 0 && nextRelY < content.Y-gap {
			dy = 0
		}
		if dy < 0 && nextRelY+st.RelativeHeight > content.Y+content.Height+gap {
			dy = 0
		}
	}
	return c.Move(dx, dy)
}

// Zoom changes the scale while keeping the world point under the screen
// anchor (screenX, screenY) fixed. targetScale is clamped to the configured
// range; out-of-range requests (including zero or negative) are absorbed by
// the clamp rather than rejected.
func (c *Camera) Zoom(screenX, screenY, targetScale float64) bool {
	st := c.state
	targetScale = clamp(targetScale, st.ScaleMin, st.ScaleMax)
	if targetScale == st.Scale {
		return false
	}
	ratio := targetScale / st.Scale
	return c.Set(func(s *CameraState) {
		s.X = screenX - (screenX-st.X)*ratio
		s.Y = screenY - (screenY-st.Y)*ratio
		s.Scale = targetScale
	})
}

// SetViewportInsets reserves screen-space margins without moving the raw
// offset. With maintainCenter, the world point previously centered in the
// visible (inset-adjusted) area stays centered under the new insets.
func (c *Camera) SetViewportInsets(insets Insets, maintainCenter bool) bool {
	st := c.state
	return c.Set(func(s *CameraState) {
		s.Insets = insets
		if !maintainCenter {
			return
		}
		oldCX, oldCY := st.visibleCenter()
		wx := (oldCX - st.X) / st.Scale
		wy := (oldCY - st.Y) / st.Scale
		newCX, newCY := s.visibleCenter()
		s.X = newCX - wx*st.Scale
		s.Y = newCY - wy*st.Scale
	})
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	st := c.state
	return (sx - st.X) / st.Scale, (sy - st.Y) / st.Scale
}

// WorldToScreen converts world coordinates to screen coordinates.
// Exact inverse of ScreenToWorld up to floating-point error.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	st := c.state
	return wx*st.Scale + st.X, wy*st.Scale + st.Y
}

// ApplyToPoint converts a screen point into camera-relative integer space,
// the coordinate system renderers draw in.
func (c *Camera) ApplyToPoint(sx, sy float64) (int, int) {
	wx, wy := c.ScreenToWorld(sx, sy)
	return int(math.Floor(wx)), int(math.Floor(wy))
}

// ApplyToRect converts a screen-space rectangle into camera-relative
// integer space.
func (c *Camera) ApplyToRect(r Rect) (x, y, w, h int) {
	st := c.state
	x, y = c.ApplyToPoint(r.X, r.Y)
	w = int(math.Floor(r.Width / st.Scale))
	h = int(math.Floor(r.Height / st.Scale))
	return
}

// ScaleLevel returns the detail tier for the current scale.
func (c *Camera) ScaleLevel() ScaleLevel {
	return ScaleLevelFor(c.state.Scale)
}

// --- Fitting and animation ---

// centeringOffset returns the camera offset that places the world point
// (wx, wy) at the center of the visible area at the given scale.
func (c *Camera) centeringOffset(wx, wy, scale float64) (x, y float64) {
	probe := c.state
	probe.Scale = scale
	cx, cy := probe.visibleCenter()
	return cx - wx*scale, cy - wy*scale
}

// ZoomToRect fits a world rectangle (plus padding on all sides) into the
// visible viewport and centers it. The resulting scale is clamped.
func (c *Camera) ZoomToRect(target Rect, padding float64) bool {
	st := c.state
	visW := st.Width - st.Insets.Left - st.Insets.Right
	visH := st.Height - st.Insets.Top - st.Insets.Bottom
	if visW <= 0 || visH <= 0 || target.Width <= 0 || target.Height <= 0 {
		return false
	}
	scale := math.Min(
		visW/(target.Width+2*padding),
		visH/(target.Height+2*padding),
	)
	scale = clamp(scale, st.ScaleMin, st.ScaleMax)
	center := target.Center()
	x, y := c.centeringOffset(center.X, center.Y, scale)
	return c.Set(func(s *CameraState) {
		s.X = x
		s.Y = y
		s.Scale = scale
	})
}

// AnimateTo tweens the camera so the world point (wx, wy) ends centered in
// the visible viewport at targetScale, over duration seconds. A new call
// replaces any animation in flight. Without a scheduler, or with a
// non-positive duration, the move is applied immediately.
func (c *Camera) AnimateTo(wx, wy, targetScale float64, duration float32, easeFn ease.TweenFunc) {
	st := c.state
	targetScale = clamp(targetScale, st.ScaleMin, st.ScaleMax)
	destX, destY := c.centeringOffset(wx, wy, targetScale)

	c.StopAnimation()
	if c.sched == nil || duration <= 0 {
		c.Set(func(s *CameraState) {
			s.X = destX
			s.Y = destY
			s.Scale = targetScale
		})
		return
	}

	anim := &cameraAnim{
		tweenX:     gween.New(float32(st.X), float32(destX), duration, easeFn),
		tweenY:     gween.New(float32(st.Y), float32(destY), duration, easeFn),
		tweenScale: gween.New(float32(st.Scale), float32(targetScale), duration, easeFn),
	}
	anim.handle = c.sched.Add(func() { c.stepAnimation(anim) }, TaskOptions{
		Priority:      PriorityHigh,
		FrameInterval: 1,
	})
	c.anim = anim
}

// Animating reports whether an animated move is in flight.
func (c *Camera) Animating() bool {
	return c.anim != nil
}

// StopAnimation cancels any animated move in flight, leaving the camera
// where it is. No-op when nothing is animating.
func (c *Camera) StopAnimation() {
	if c.anim == nil {
		return
	}
	if c.sched != nil {
		c.sched.Remove(c.anim.handle)
	}
	c.anim = nil
}

// stepAnimation advances one frame of an animated move.
func (c *Camera) stepAnimation(anim *cameraAnim) {
	if c.anim != anim {
		return
	}
	x, doneX := anim.tweenX.Update(animDT)
	y, doneY := anim.tweenY.Update(animDT)
	scale, doneScale := anim.tweenScale.Update(animDT)
	committed := c.Set(func(s *CameraState) {
		s.X = float64(x)
		s.Y = float64(y)
		s.Scale = float64(scale)
	})
	// A vetoed frame ends the animation rather than fighting the veto.
	if (doneX && doneY && doneScale) || !committed {
		c.StopAnimation()
	}
}
