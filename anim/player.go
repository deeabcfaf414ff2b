package anim

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/deskpet/env"
)

const (
	gravity      = 0.5
	maxFallSpeed = 18.0
	cursorReach  = 24.0
)

// Frame is the result of one Step: where the anchor moved, which sprite to
// draw, and whether the action finished this tick.
type Frame struct {
	Anchor    cp.Vector
	Image     string
	Done      bool
	HitBorder bool
}

// Player runs one Action for one mascot. A fresh Player starts the action
// from its first pose; mascots build a new one on every behavior transition.
type Player struct {
	action   *Action
	tick     int
	loops    int
	velocity cp.Vector
}

func NewPlayer(action *Action) *Player {
	return &Player{action: action}
}

// Action returns the action being played.
func (p *Player) Action() *Action {
	return p.action
}

// SetVelocity seeds the launch velocity for thrown actions.
func (p *Player) SetVelocity(v cp.Vector) {
	p.velocity = v
}

// Step advances the action by one tick. Pose x velocities are authored
// facing right and flip when the mascot looks left.
func (p *Player) Step(anchor cp.Vector, lookingRight bool, snap env.Snapshot) Frame {
	pose := p.action.poseAt(p.tick)
	frame := Frame{Anchor: anchor, Image: pose.Image}

	switch p.action.Kind {
	case KindMove:
		p.stepMove(&frame, pose, lookingRight, snap)
	case KindFall, KindThrown:
		p.stepBallistic(&frame, snap)
	case KindHeld:
		frame.Anchor = snap.Cursor
		p.tick = (p.tick + 1) % p.action.length
	default:
		p.stepAnimate(&frame, pose, lookingRight)
	}

	return frame
}

func (p *Player) stepAnimate(frame *Frame, pose Pose, lookingRight bool) {
	frame.Anchor = frame.Anchor.Add(facingVelocity(pose.Velocity, lookingRight))
	p.tick++
	if p.tick >= p.action.length {
		p.tick = 0
		p.loops++
		if p.loops > p.action.Repeat {
			frame.Done = true
		}
	}
}

func (p *Player) stepMove(frame *Frame, pose Pose, lookingRight bool, snap env.Snapshot) {
	next := frame.Anchor.Add(facingVelocity(pose.Velocity, lookingRight))

	switch p.action.Until {
	case UntilBorder:
		if next.X <= snap.WorkArea.Left {
			next.X = snap.WorkArea.Left
			frame.Done = true
			frame.HitBorder = true
		} else if next.X >= snap.WorkArea.Right {
			next.X = snap.WorkArea.Right
			frame.Done = true
			frame.HitBorder = true
		}
	case UntilCursor:
		if next.Distance(snap.Cursor) <= cursorReach {
			frame.Done = true
		}
	}

	frame.Anchor = next
	p.tick = (p.tick + 1) % p.action.length
}

func (p *Player) stepBallistic(frame *Frame, snap env.Snapshot) {
	p.velocity.Y += gravity
	if p.velocity.Y > maxFallSpeed {
		p.velocity.Y = maxFallSpeed
	}

	if p.velocity.Y > 0 {
		if y, ok := snap.SurfaceBelow(frame.Anchor, p.velocity.Y); ok {
			frame.Anchor = cp.Vector{X: frame.Anchor.X + p.velocity.X, Y: y}
			frame.Anchor = clampX(frame.Anchor, snap.WorkArea)
			frame.Done = true
			p.tick = (p.tick + 1) % p.action.length
			return
		}
	}

	frame.Anchor = frame.Anchor.Add(p.velocity)
	clamped := clampX(frame.Anchor, snap.WorkArea)
	if clamped.X != frame.Anchor.X {
		p.velocity.X = 0
	}
	frame.Anchor = clamped

	// A drop that started below every surface still has to stop somewhere.
	if frame.Anchor.Y >= snap.WorkArea.Bottom {
		frame.Anchor.Y = snap.WorkArea.Bottom
		frame.Done = true
	}

	p.tick = (p.tick + 1) % p.action.length
}

func facingVelocity(v cp.Vector, lookingRight bool) cp.Vector {
	if lookingRight {
		return v
	}
	return cp.Vector{X: -v.X, Y: v.Y}
}

func clampX(p cp.Vector, r env.Rect) cp.Vector {
	if p.X < r.Left {
		p.X = r.Left
	}
	if p.X > r.Right {
		p.X = r.Right
	}
	return p
}
