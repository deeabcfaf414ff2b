package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/deskpet/common"
)

const cursorTrail = 6

// Input holds the current input state for one tick.
type Input struct {
	// Cursor is the pointer position in screen coordinates.
	Cursor cp.Vector
	// GrabPressed is true on the frame the left button goes down.
	GrabPressed bool
	// GrabReleased is true on the frame the left button comes back up.
	GrabReleased bool
	// GatherPressed is true on the frame the right button goes down.
	GatherPressed bool
	// SpawnPressed (S) asks for a new pet at the cursor.
	SpawnPressed bool
	// RemovePressed (X) removes the pet under the cursor.
	RemovePressed bool
	// DividePressed (V) splits the pet under the cursor.
	DividePressed bool
	// WindowToggled (W) hides or shows the demo window.
	WindowToggled bool
	// WindowMove is the demo window nudge from held arrow keys, pixels per tick.
	WindowMove cp.Vector
	// PanelToggled (P) opens or closes the control panel.
	PanelToggled bool
	// DebugToggled (F1) flips the debug overlay.
	DebugToggled bool
	// CopyPressed (C) copies the population dump to the clipboard.
	CopyPressed bool
	// PausePressed (space) freezes the engine loop.
	PausePressed bool
	// QuitRequested (escape) ends the run.
	QuitRequested bool

	// recent cursor positions for computing a throw velocity on release
	trail [cursorTrail]cp.Vector
	idx   int
}

func NewInput() *Input {
	return &Input{}
}

// Update polls the mouse and keyboard.
func (i *Input) Update() {
	mx, my := ebiten.CursorPosition()
	i.Cursor = cp.Vector{X: float64(mx), Y: float64(my)}

	i.trail[i.idx] = i.Cursor
	i.idx = (i.idx + 1) % cursorTrail

	i.GrabPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	i.GrabReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	i.GatherPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)

	i.SpawnPressed = inpututil.IsKeyJustPressed(ebiten.KeyS)
	i.RemovePressed = inpututil.IsKeyJustPressed(ebiten.KeyX)
	i.DividePressed = inpututil.IsKeyJustPressed(ebiten.KeyV)
	i.WindowToggled = inpututil.IsKeyJustPressed(ebiten.KeyW)
	i.PanelToggled = inpututil.IsKeyJustPressed(ebiten.KeyP)
	i.DebugToggled = inpututil.IsKeyJustPressed(ebiten.KeyF1)
	i.CopyPressed = inpututil.IsKeyJustPressed(ebiten.KeyC)
	i.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	i.QuitRequested = inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	i.WindowMove = cp.Vector{}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		i.WindowMove.X -= 6
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		i.WindowMove.X += 6
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		i.WindowMove.Y -= 6
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		i.WindowMove.Y += 6
	}
}

// ThrowVelocity is the cursor's recent per-tick movement, clamped so a wild
// flick stays inside what the ballistic step handles well.
func (i *Input) ThrowVelocity() cp.Vector {
	oldest := i.trail[i.idx]
	v := i.Cursor.Sub(oldest).Mult(1.0 / float64(cursorTrail-1))
	return cp.Vector{
		X: common.Clamp(v.X, -40, 40),
		Y: common.Clamp(v.Y, -25, 25),
	}
}
