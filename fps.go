package graph

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay draws frame statistics in the top-left corner, refreshed about
// twice a second so the text stays readable.
type fpsOverlay struct {
	frames int
	text   string
}

func (f *fpsOverlay) draw(screen *ebiten.Image, scene *Scene) {
	f.frames++
	if f.text == "" || f.frames%30 == 0 {
		st := scene.Camera().State()
		f.text = fmt.Sprintf("FPS: %.1f  TPS: %.1f\ncam (%.0f,%.0f) x%.2f  components: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			st.X, st.Y, st.Scale, scene.HitTest().Len())
	}
	ebitenutil.DebugPrint(screen, f.text)
}
