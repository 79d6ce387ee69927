package graph

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// whitePixel is a 1x1 white image scaled to fill rectangles in the
// development visualization.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(color.White)
}

// RunConfig configures the window created by [Run].
type RunConfig struct {
	Title         string
	Width, Height int
	// Debug enables per-frame stderr diagnostics.
	Debug bool
}

// game adapts a Scene to the ebiten.Game interface.
type game struct {
	scene *Scene
	fps   fpsOverlay
}

func (g *game) Update() error {
	// Cursor affordance: grabbing while a drag is active.
	if g.scene.drag.Grabbing() {
		ebiten.SetCursorShape(ebiten.CursorShapeMove)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
	g.scene.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.drawDebugScene(screen)
	if g.scene.debug {
		g.fps.draw(screen, g.scene)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	st := g.scene.camera.State()
	if float64(outsideWidth) != st.Width || float64(outsideHeight) != st.Height {
		g.scene.camera.SetViewportSize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and drives the scene until the window closes. It
// starts the scene with the configured viewport size; pixel-level content
// rendering is the application's job, so Draw shows only the development
// visualization of component boxes.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.Title == "" {
		cfg.Title = "graph"
	}
	scene.SetDebugMode(cfg.Debug)
	if err := scene.Start(float64(cfg.Width), float64(cfg.Height)); err != nil {
		return err
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(&game{scene: scene})
}

// Fill colors for the development visualization.
var (
	debugBlockColor      = color.RGBA{R: 0x3a, G: 0x6e, B: 0xa5, A: 0xff}
	debugSelectedColor   = color.RGBA{R: 0xe0, G: 0x9f, B: 0x3e, A: 0xff}
	debugConnectionColor = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
	debugAnchorColor     = color.RGBA{R: 0x9a, G: 0xc1, B: 0x6a, A: 0xff}
)

// drawDebugScene fills the world-space box of every component through the
// camera transform. At the coarse detail tier connections and anchors are
// skipped, matching how a real renderer would simplify.
func (s *Scene) drawDebugScene(screen *ebiten.Image) {
	level := s.camera.ScaleLevel()

	if level != ScaleLevelCoarse {
		for _, c := range s.connections {
			s.fillWorldRect(screen, c.HitBox(), debugConnectionColor, c.Selected())
		}
	}
	for _, b := range s.Blocks() {
		s.fillWorldRect(screen, b.Geometry(), debugBlockColor, b.Selected())
	}
	if level == ScaleLevelDetailed {
		for _, a := range s.anchors {
			s.fillWorldRect(screen, a.HitBox(), debugAnchorColor, a.Selected())
		}
	}
}

// fillWorldRect draws one world-space rectangle in screen space.
func (s *Scene) fillWorldRect(screen *ebiten.Image, r Rect, fill color.RGBA, selected bool) {
	st := s.camera.State()
	if !r.Intersects(st.VisibleWorldRect()) {
		return
	}
	if selected {
		fill = debugSelectedColor
	}
	sx, sy := s.camera.WorldToScreen(r.X, r.Y)
	w := r.Width * st.Scale
	h := r.Height * st.Scale
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(sx, sy)
	op.ColorScale.ScaleWithColor(fill)
	screen.DrawImage(whitePixel, &op)
}
