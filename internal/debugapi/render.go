package debugapi

import (
	"fmt"
	"image/color"
	"net/http"
	"time"

	"github.com/fogleman/gg"
)

const (
	renderWidth  = 640
	renderHeight = 640
	renderMargin = 32
)

// enemyColorByRole mirrors the teacher's per-archetype color table in
// stream.go's drawPlayer, keyed here by sim.EnemyRole instead of team.
var enemyColorByRole = map[int32]color.RGBA{
	0: {200, 200, 200, 255}, // RoleNone
	1: {220, 60, 60, 255},   // RoleLeader
	2: {220, 120, 40, 255},  // RoleBruiser
	3: {220, 200, 60, 255},  // RoleSkirmisher
	4: {60, 160, 220, 255},  // RoleSupport
	5: {160, 60, 220, 255},  // RoleScout
}

// handleRenderPNG renders a top-down debug view of the current run:
// the arena bounds, the player, and every living enemy colored by pack
// role. Grounded on the teacher's StreamManager.renderFrameToBuffer
// (gg.Context + LoadFontFace + DrawStringAnchored), generalized from
// "render every networked player" to "render the one sim.World".
func (h *handlers) handleRenderPNG(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	view := h.r.View()

	dc := gg.NewContext(renderWidth, renderHeight)
	dc.SetRGB(0.07, 0.07, 0.09)
	dc.Clear()

	// Arena bounds: the sim's world coordinates run in [0,1]x[0,1].
	dc.SetRGB(0.25, 0.25, 0.3)
	dc.DrawRectangle(renderMargin, renderMargin, renderWidth-2*renderMargin, renderHeight-2*renderMargin)
	dc.Stroke()

	toScreen := func(x, y float32) (float64, float64) {
		sx := renderMargin + float64(x)*(renderWidth-2*renderMargin)
		sy := renderMargin + float64(y)*(renderHeight-2*renderMargin)
		return sx, sy
	}

	for _, e := range view.Enemies {
		ex, ey := toScreen(e.X, e.Y)
		c, ok := enemyColorByRole[e.Role]
		if !ok {
			c = enemyColorByRole[0]
		}
		dc.SetColor(c)
		dc.DrawCircle(ex, ey, 8)
		dc.Fill()
	}

	px, py := toScreen(view.PlayerX, view.PlayerY)
	dc.SetRGB(0.9, 0.9, 1)
	dc.DrawCircle(px, py, 10)
	dc.Fill()

	if err := dc.LoadFontFace(fontPath(), 14); err == nil {
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(
			fmt.Sprintf("tick %d  phase %d  hp %.2f  enemies %d", view.TickCount, view.Phase, view.PlayerHP, len(view.Enemies)),
			renderMargin, renderHeight-10, 0, 0,
		)
	}

	w.Header().Set("Content-Type", "image/png")
	_ = dc.EncodePNG(w)

	RecordRender(time.Since(start))
}

// fontPath returns a best-effort system font path; LoadFontFace's error
// is already handled by callers, so an absent font just skips the HUD
// text rather than failing the render.
func fontPath() string {
	return "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
}
