package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

// drawHUD paints the debug overlay: a status line, a hit box and label per
// pet, and a dot on the cursor the pets are reacting to.
func (g *Game) drawHUD(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("tps %.0f fps %.0f pets %d/%d tick %d",
		ebiten.ActualTPS(), ebiten.ActualFPS(), g.manager.Count(), g.manager.Cap(), g.ticks))

	for _, m := range g.manager.Mascots() {
		b := m.Bounds()
		vector.StrokeRect(screen, float32(b.Left), float32(b.Top), float32(b.Width()), float32(b.Height()), 1, colornames.Yellowgreen, false)
		ebitenutil.DebugPrintAt(screen, m.BehaviorName(), int(b.Left), int(b.Top)-16)
	}

	vector.DrawFilledCircle(screen, float32(g.input.Cursor.X), float32(g.input.Cursor.Y), 3, colornames.Orangered, false)
}

// diagnostics renders the population as text for the clipboard keybind and
// the headless status loop.
func (g *Game) diagnostics() string {
	var b strings.Builder
	fmt.Fprintf(&b, "deskpet: %d/%d pets, tick %d, paused %t\n",
		g.manager.Count(), g.manager.Cap(), g.ticks, g.paused)
	for _, m := range g.manager.Mascots() {
		facing := "left"
		if m.LookingRight() {
			facing = "right"
		}
		fmt.Fprintf(&b, "  %s %-12s anchor (%.0f, %.0f) facing %s\n",
			m.ID.String()[:8], m.BehaviorName(), m.Anchor().X, m.Anchor().Y, facing)
	}
	return b.String()
}

func (g *Game) copyDiagnostics() {
	if !g.clip {
		g.log.Warn("clipboard unavailable, diagnostics not copied")
		return
	}
	text := g.diagnostics()
	clipboard.Write(clipboard.FmtText, []byte(text))
	g.log.Info("diagnostics copied to clipboard", "bytes", len(text))
}
