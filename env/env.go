package env

import (
	"math"

	"github.com/jakecoffman/cp"
)

// onTolerance is how close (in pixels) a point must be to an edge for the
// border predicates to consider it "on" the edge.
const onTolerance = 1.0

// Rect is an axis-aligned rectangle in screen coordinates (y grows down).
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

func NewRect(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p cp.Vector) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Clamp returns p moved to the nearest point inside r.
func (r Rect) Clamp(p cp.Vector) cp.Vector {
	return cp.Vector{
		X: math.Min(math.Max(p.X, r.Left), r.Right),
		Y: math.Min(math.Max(p.Y, r.Top), r.Bottom),
	}
}

// Border is one axis-aligned edge of a rectangle.
type Border struct {
	horizontal bool
	at         float64 // y for horizontal edges, x for vertical ones
	lo, hi     float64 // span along the edge
}

func (r Rect) TopBorder() Border {
	return Border{horizontal: true, at: r.Top, lo: r.Left, hi: r.Right}
}

func (r Rect) BottomBorder() Border {
	return Border{horizontal: true, at: r.Bottom, lo: r.Left, hi: r.Right}
}

func (r Rect) LeftBorder() Border {
	return Border{at: r.Left, lo: r.Top, hi: r.Bottom}
}

func (r Rect) RightBorder() Border {
	return Border{at: r.Right, lo: r.Top, hi: r.Bottom}
}

// IsOn reports whether p sits on the edge within tolerance.
func (b Border) IsOn(p cp.Vector) bool {
	if b.horizontal {
		return math.Abs(p.Y-b.at) <= onTolerance && p.X >= b.lo-onTolerance && p.X <= b.hi+onTolerance
	}
	return math.Abs(p.X-b.at) <= onTolerance && p.Y >= b.lo-onTolerance && p.Y <= b.hi+onTolerance
}

// At returns the fixed coordinate of the edge (y for horizontal edges).
func (b Border) At() float64 { return b.at }

// Horizontal reports whether the edge runs along the x axis.
func (b Border) Horizontal() bool { return b.horizontal }

// Window is the frontmost tracked window, when one exists.
type Window struct {
	Bounds  Rect
	Visible bool
}

// Snapshot is a read-only view of the desktop captured once per tick.
// Condition evaluation always queries a fresh Snapshot; the engine never
// caches one across ticks because window geometry changes between frames.
type Snapshot struct {
	WorkArea     Rect
	ActiveWindow Window
	Cursor       cp.Vector
}

// Floor is the border mascots stand on: the work area's bottom edge.
func (s Snapshot) Floor() Border { return s.WorkArea.BottomBorder() }

// Ceiling is the work area's top edge.
func (s Snapshot) Ceiling() Border { return s.WorkArea.TopBorder() }

// OnSurface reports whether p rests on a standable surface: the floor, or
// the active window's top edge while the window is visible.
func (s Snapshot) OnSurface(p cp.Vector) bool {
	if s.Floor().IsOn(p) {
		return true
	}
	return s.ActiveWindow.Visible && s.ActiveWindow.Bounds.TopBorder().IsOn(p)
}

// SurfaceBelow returns the y coordinate of the first standable surface a
// drop from p crosses while moving down by dy. ok is false when the drop
// crosses nothing.
func (s Snapshot) SurfaceBelow(p cp.Vector, dy float64) (float64, bool) {
	crossed := func(b Border) bool {
		return p.X >= b.lo && p.X <= b.hi && p.Y <= b.at && p.Y+dy >= b.at
	}

	best := math.Inf(1)
	ok := false
	if f := s.Floor(); crossed(f) {
		best = f.at
		ok = true
	}
	if s.ActiveWindow.Visible {
		if t := s.ActiveWindow.Bounds.TopBorder(); crossed(t) && t.at < best {
			best = t.at
			ok = true
		}
	}
	if !ok {
		return 0, false
	}
	return best, true
}

// Provider supplies a fresh Snapshot at the start of every tick.
type Provider interface {
	Snapshot() Snapshot
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func() Snapshot

func (f ProviderFunc) Snapshot() Snapshot { return f() }
