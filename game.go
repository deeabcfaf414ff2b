package main

import (
	"image/color"
	"log/slog"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"

	"github.com/milk9111/deskpet/anim"
	"github.com/milk9111/deskpet/assets"
	"github.com/milk9111/deskpet/behavior"
	"github.com/milk9111/deskpet/mascot"
	"github.com/milk9111/deskpet/pack"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

type Game struct {
	ticks     int
	debug     bool
	paused    bool
	showPanel bool
	quit      bool

	log     *slog.Logger
	desktop *Desktop
	manager *mascot.Manager
	input   *Input
	panel   *Panel

	sprites map[string]*ebiten.Image
	watcher *pack.Watcher
	dragged *mascot.Mascot
	clip    bool
}

func NewGame(log *slog.Logger, pets, maxPets int, debug bool) (*Game, error) {
	table, actions, err := loadPack(log)
	if err != nil {
		return nil, err
	}
	sprites, err := assets.Sprites(actions.Images())
	if err != nil {
		return nil, err
	}

	desktop := NewDesktop(screenWidth, screenHeight)
	manager := mascot.NewManager(table, actions, desktop, maxPets, nil, log)

	g := &Game{
		debug:   debug,
		log:     log,
		desktop: desktop,
		manager: manager,
		input:   NewInput(),
		sprites: sprites,
	}
	g.panel = NewPanel(g)

	for i := 0; i < pets; i++ {
		at := cp.Vector{
			X: screenWidth * float64(i+1) / float64(pets+1),
			Y: screenHeight,
		}
		if _, err := manager.Spawn(at); err != nil {
			log.Warn("initial spawn refused", "error", err)
			break
		}
	}

	if watcher, err := pack.NewWatcher(pack.Dir); err != nil {
		log.Debug("pack watcher disabled", "error", err)
	} else {
		g.watcher = watcher
	}

	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", "error", err)
	} else {
		g.clip = true
	}

	return g, nil
}

// loadPack builds a fresh table and catalog from the pack files and checks
// they agree with each other.
func loadPack(log *slog.Logger) (*behavior.Table, *anim.Set, error) {
	tableSpec, err := pack.LoadTableSpec()
	if err != nil {
		return nil, nil, err
	}
	table, err := behavior.Compile(tableSpec, log)
	if err != nil {
		return nil, nil, err
	}

	actionsSpec, err := pack.LoadActionsSpec()
	if err != nil {
		return nil, nil, err
	}
	actions, err := anim.Compile(actionsSpec)
	if err != nil {
		return nil, nil, err
	}

	if err := actions.Covers(table.Actions()); err != nil {
		return nil, nil, err
	}
	return table, actions, nil
}

func (g *Game) Update() error {
	g.input.Update()
	if err := g.handleInput(); err != nil {
		return err
	}

	g.pollReload()

	g.desktop.SetCursor(g.input.Cursor)
	g.desktop.Update()

	if !g.paused {
		g.manager.Update()
	}

	if g.showPanel {
		g.panel.Update()
	}

	g.ticks++
	return nil
}

func (g *Game) handleInput() error {
	in := g.input

	if in.QuitRequested || g.quit {
		if g.watcher != nil {
			_ = g.watcher.Close()
		}
		return ebiten.Termination
	}

	if in.PausePressed {
		g.paused = !g.paused
	}
	if in.DebugToggled {
		g.debug = !g.debug
	}
	if in.PanelToggled {
		g.showPanel = !g.showPanel
	}

	if in.GrabPressed {
		if m := g.manager.At(in.Cursor); m != nil {
			m.StartDrag()
			g.dragged = m
		}
	}
	if in.GrabReleased && g.dragged != nil {
		g.dragged.Release(in.ThrowVelocity())
		g.dragged = nil
	}

	if in.GatherPressed {
		g.manager.GatherAll()
	}
	if in.SpawnPressed {
		g.spawnAt(in.Cursor)
	}
	if in.RemovePressed {
		if m := g.manager.At(in.Cursor); m != nil {
			if g.dragged == m {
				g.dragged = nil
			}
			g.manager.Remove(m.ID)
		}
	}
	if in.DividePressed {
		if m := g.manager.At(in.Cursor); m != nil {
			m.Divide()
		}
	}

	if in.WindowToggled {
		g.desktop.Toggle()
	}
	if in.WindowMove.X != 0 || in.WindowMove.Y != 0 {
		g.desktop.Nudge(in.WindowMove.X, in.WindowMove.Y)
	}

	if in.CopyPressed {
		g.copyDiagnostics()
	}

	return nil
}

func (g *Game) spawnAt(p cp.Vector) {
	if _, err := g.manager.Spawn(p); err != nil {
		g.log.Warn("spawn refused", "error", err)
	}
}

func (g *Game) spawnRandom() {
	g.spawnAt(cp.Vector{
		X: screenWidth * (0.1 + 0.8*rand.Float64()),
		Y: screenHeight,
	})
}

func (g *Game) divideOne() {
	pets := g.manager.Mascots()
	if len(pets) == 0 {
		return
	}
	pets[rand.Intn(len(pets))].Divide()
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	select {
	case name := <-g.watcher.Reloads:
		g.log.Info("pack change detected", "file", name)
		g.reloadPack()
	case err := <-g.watcher.Errors:
		g.log.Error("pack watcher error", "error", err)
	default:
	}
}

// reloadPack swaps in a freshly compiled pack. A pack that fails to compile
// leaves the running one in place.
func (g *Game) reloadPack() {
	table, actions, err := loadPack(g.log)
	if err != nil {
		g.log.Error("pack reload failed, keeping the previous table", "error", err)
		return
	}
	sprites, err := assets.Sprites(actions.Images())
	if err != nil {
		g.log.Error("pack reload failed, keeping the previous table", "error", err)
		return
	}

	g.manager.Rebind(table, actions)
	g.sprites = sprites
	if g.dragged != nil && !g.dragged.Dragging() {
		g.dragged = nil
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x1a, G: 0x1d, B: 0x23, A: 0xff})
	g.desktop.Draw(screen)

	for _, m := range g.manager.Mascots() {
		g.drawMascot(screen, m)
	}

	if g.debug {
		g.drawHUD(screen)
	}
	if g.showPanel {
		g.panel.Draw(screen)
	}
}

func (g *Game) drawMascot(screen *ebiten.Image, m *mascot.Mascot) {
	img := g.sprites[m.ImageName()]
	if img == nil {
		b := m.Bounds()
		vector.DrawFilledRect(screen, float32(b.Left), float32(b.Top), float32(b.Width()), float32(b.Height()), colornames.Hotpink, false)
		return
	}

	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	x := m.Anchor().X - w/2
	y := m.Anchor().Y - h

	op := &ebiten.DrawImageOptions{}
	if m.LookingRight() {
		op.GeoM.Translate(math.Round(x), math.Round(y))
	} else {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(math.Round(x+w), math.Round(y))
	}
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(img, op)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return screenWidth, screenHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
