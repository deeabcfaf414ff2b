package mascot

import (
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/deskpet/anim"
	"github.com/milk9111/deskpet/behavior"
	"github.com/milk9111/deskpet/condition"
	"github.com/milk9111/deskpet/env"
)

// Nominal sprite box used for hit testing, anchored bottom-center like the
// sprites themselves.
const (
	Width  = 64.0
	Height = 64.0
)

// Mascot is one pet on the desktop: an anchor position, a facing, the
// behavior runtime deciding what it does, and the pose player animating it.
type Mascot struct {
	ID uuid.UUID

	anchor       cp.Vector
	lookingRight bool

	runtime *behavior.Runtime
	actions *anim.Set
	player  *anim.Player
	image   string

	log *slog.Logger
}

func New(table *behavior.Table, actions *anim.Set, at cp.Vector, rng *rand.Rand, log *slog.Logger) *Mascot {
	if log == nil {
		log = slog.Default()
	}
	m := &Mascot{
		ID:           uuid.New(),
		anchor:       at,
		lookingRight: rng == nil || rng.Intn(2) == 0,
		runtime:      behavior.NewRuntime(table, rng, log),
		actions:      actions,
		log:          log,
	}
	return m
}

func (m *Mascot) Anchor() cp.Vector { return m.anchor }

func (m *Mascot) SetAnchor(p cp.Vector) { m.anchor = p }

func (m *Mascot) LookingRight() bool { return m.lookingRight }

// BehaviorName returns the active behavior, or "" between spawn and the
// first update.
func (m *Mascot) BehaviorName() string {
	def := m.runtime.Current()
	if def == nil {
		return ""
	}
	return def.Name
}

// ImageName returns the sprite for the current pose.
func (m *Mascot) ImageName() string { return m.image }

// Dragging reports whether the mascot is currently held on the cursor.
func (m *Mascot) Dragging() bool {
	return m.BehaviorName() == behavior.Dragged
}

// Bounds is the hit-test box around the anchor.
func (m *Mascot) Bounds() env.Rect {
	return env.NewRect(m.anchor.X-Width/2, m.anchor.Y-Height, m.anchor.X+Width/2, m.anchor.Y)
}

// Contains reports whether p hits the mascot's box.
func (m *Mascot) Contains(p cp.Vector) bool {
	return m.Bounds().Contains(p)
}

// Update advances the mascot by one tick against this tick's snapshot.
// totalCount is the live population including this mascot. The return value
// reports whether the finishing action asked for a clone; the caller defers
// the actual spawn to the end of the tick.
func (m *Mascot) Update(snap env.Snapshot, totalCount int) bool {
	ctx := m.context(snap, totalCount)

	if m.runtime.Current() == nil {
		if def := m.runtime.Advance(ctx); def != nil {
			m.bind(def)
		}
	}
	if m.player == nil {
		return false
	}

	// Standing on a window that moved away means there is nothing under
	// the feet anymore.
	if m.player.Action().Grounded && !snap.OnSurface(m.anchor) {
		m.interrupt(behavior.Fall)
		if m.player == nil {
			return false
		}
	}

	if m.player.Action().Until == anim.UntilCursor {
		m.lookingRight = snap.Cursor.X >= m.anchor.X
	}

	frame := m.player.Step(m.anchor, m.lookingRight, snap)
	m.anchor = frame.Anchor
	m.image = frame.Image

	if frame.HitBorder {
		m.lookingRight = !m.lookingRight
	}

	if !frame.Done {
		return false
	}

	divided := m.player.Action().Spawn
	finished := m.runtime.Current().Name

	if next := m.runtime.Advance(ctx); next != nil {
		m.bind(next)
		if next.Name != finished {
			m.log.Debug("behavior transition",
				"mascot", m.ID,
				"from", finished,
				"to", next.Name)
		}
	}

	return divided
}

// StartDrag pins the mascot to the cursor until Release.
func (m *Mascot) StartDrag() {
	m.interrupt(behavior.Dragged)
}

// Release lets go of a held mascot, launching it with the cursor's recent
// velocity.
func (m *Mascot) Release(velocity cp.Vector) {
	if m.interrupt(behavior.Thrown) {
		m.player.SetVelocity(velocity)
	}
}

// Chase sends the mascot running after the cursor.
func (m *Mascot) Chase() {
	m.interrupt(behavior.ChaseMouse)
}

// Divide forces the division behavior. The clone appears at the end of the
// tick, population cap permitting.
func (m *Mascot) Divide() {
	m.interrupt(behavior.Divided)
}

// Rebind points the mascot at freshly loaded tables after a pack reload.
// Animation progress restarts; a mascot whose behavior disappeared picks a
// new one on the next update.
func (m *Mascot) Rebind(table *behavior.Table, actions *anim.Set) {
	m.actions = actions
	m.runtime.Rebind(table)
	m.player = nil
	if def := m.runtime.Current(); def != nil {
		m.bind(def)
	}
}

func (m *Mascot) interrupt(name string) bool {
	def, err := m.runtime.Force(name)
	if err != nil {
		m.log.Error("interrupt failed", "mascot", m.ID, "behavior", name, "error", err)
		return false
	}
	return m.bind(def)
}

func (m *Mascot) bind(def *behavior.Definition) bool {
	action, err := m.actions.Lookup(def.Action)
	if err != nil {
		m.log.Error("behavior has no animation", "mascot", m.ID, "behavior", def.Name, "action", def.Action, "error", err)
		m.player = nil
		return false
	}
	m.player = anim.NewPlayer(action)
	return true
}

func (m *Mascot) context(snap env.Snapshot, totalCount int) condition.Context {
	return condition.Context{
		Anchor:       m.anchor,
		LookingRight: m.lookingRight,
		TotalCount:   totalCount,
		Env:          snap,
	}
}
