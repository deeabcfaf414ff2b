package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/deskpet/common"
	"github.com/milk9111/deskpet/env"
)

const windowTitleBar = 22

// Desktop is the playground the pets live on: the work area plus a movable
// demo "application window" that gives them something to perch on. It is the
// engine's env.Provider.
type Desktop struct {
	workArea env.Rect
	window   env.Rect
	visible  bool

	// top-left the demo window eases toward while the arrow keys are held
	target cp.Vector
	cursor cp.Vector
}

func NewDesktop(width, height float64) *Desktop {
	d := &Desktop{
		workArea: env.NewRect(0, 0, width, height),
		visible:  true,
	}
	d.window = env.NewRect(width/2-200, height/2-60, width/2+200, height/2+200)
	d.target = cp.Vector{X: d.window.Left, Y: d.window.Top}
	return d
}

// Snapshot implements env.Provider.
func (d *Desktop) Snapshot() env.Snapshot {
	return env.Snapshot{
		WorkArea:     d.workArea,
		ActiveWindow: env.Window{Bounds: d.window, Visible: d.visible},
		Cursor:       d.cursor,
	}
}

// SetCursor records where the cursor is this tick. The viewer feeds it from
// ebiten; headless runs feed a synthetic point.
func (d *Desktop) SetCursor(p cp.Vector) {
	d.cursor = p
}

// Toggle hides or shows the demo window. Pets standing on a hidden window
// lose their surface and fall.
func (d *Desktop) Toggle() {
	d.visible = !d.visible
}

// Nudge moves the demo window's resting point. The window eases toward it so
// perched pets see the surface slide out from under them gradually.
func (d *Desktop) Nudge(dx, dy float64) {
	w := d.window.Width()
	h := d.window.Height()
	d.target.X = common.Clamp(d.target.X+dx, d.workArea.Left-w/2, d.workArea.Right-w/2)
	d.target.Y = common.Clamp(d.target.Y+dy, d.workArea.Top, d.workArea.Bottom-h)
}

func (d *Desktop) Update() {
	w := d.window.Width()
	h := d.window.Height()
	left := common.Lerp(d.window.Left, d.target.X, 0.2)
	top := common.Lerp(d.window.Top, d.target.Y, 0.2)
	d.window = env.NewRect(left, top, left+w, top+h)
}

func (d *Desktop) Draw(screen *ebiten.Image) {
	floorY := float32(d.workArea.Bottom)
	vector.StrokeLine(screen, float32(d.workArea.Left), floorY, float32(d.workArea.Right), floorY, 2, colornames.Dimgray, false)

	if !d.visible {
		return
	}

	x := float32(d.window.Left)
	y := float32(d.window.Top)
	w := float32(d.window.Width())
	h := float32(d.window.Height())

	vector.DrawFilledRect(screen, x, y, w, h, color.NRGBA{R: 0x2b, G: 0x31, B: 0x3a, A: 0xd0}, false)
	vector.DrawFilledRect(screen, x, y, w, windowTitleBar, color.NRGBA{R: 0x3d, G: 0x46, B: 0x52, A: 0xff}, false)
	vector.StrokeRect(screen, x, y, w, h, 1, colornames.Slategray, false)
}
