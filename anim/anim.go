package anim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/deskpet/pack"
)

var (
	ErrUnknownAction   = errors.New("anim: unknown action")
	ErrDuplicateAction = errors.New("anim: duplicate action name")
)

// Kind selects the movement dynamics an action runs under.
type Kind int

const (
	// KindAnimate plays poses in place or with fixed pose velocities and
	// completes after the repeat count.
	KindAnimate Kind = iota
	// KindMove loops poses while walking until the until target is hit.
	KindMove
	// KindFall drops ballistically and completes on landing.
	KindFall
	// KindHeld pins the anchor to the cursor and never completes.
	KindHeld
	// KindThrown is a fall with an externally supplied launch velocity.
	KindThrown
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindFall:
		return "fall"
	case KindHeld:
		return "held"
	case KindThrown:
		return "thrown"
	default:
		return "animate"
	}
}

func parseKind(s string) (Kind, error) {
	switch strings.TrimSpace(s) {
	case "", "animate":
		return KindAnimate, nil
	case "move":
		return KindMove, nil
	case "fall":
		return KindFall, nil
	case "held":
		return KindHeld, nil
	case "thrown":
		return KindThrown, nil
	default:
		return KindAnimate, fmt.Errorf("anim: invalid kind %q", s)
	}
}

// Until names the early-completion target for move actions.
type Until int

const (
	UntilNone Until = iota
	// UntilBorder completes when the anchor reaches a work area side edge.
	UntilBorder
	// UntilCursor completes when the anchor reaches the cursor.
	UntilCursor
)

func parseUntil(s string) (Until, error) {
	switch strings.TrimSpace(s) {
	case "":
		return UntilNone, nil
	case "border":
		return UntilBorder, nil
	case "cursor":
		return UntilCursor, nil
	default:
		return UntilNone, fmt.Errorf("anim: invalid until target %q", s)
	}
}

type Pose struct {
	Image    string
	Duration int
	Velocity cp.Vector
}

// Action is one compiled animation: a pose sequence plus the dynamics that
// drive it. Actions are immutable after Compile.
type Action struct {
	Name     string
	Kind     Kind
	Repeat   int
	Until    Until
	Grounded bool
	Spawn    bool
	Poses    []Pose
	length   int
}

func (a *Action) poseAt(tick int) Pose {
	t := tick % a.length
	for _, p := range a.Poses {
		t -= p.Duration
		if t < 0 {
			return p
		}
	}
	return a.Poses[len(a.Poses)-1]
}

// Set is the compiled action catalog shared by every mascot.
type Set struct {
	actions map[string]*Action
	order   []string
}

// Compile validates and freezes the action catalog. Any duplicate name,
// unknown kind or until target, missing pose, or non-positive duration fails
// the whole load.
func Compile(spec pack.ActionsSpec) (*Set, error) {
	s := &Set{actions: map[string]*Action{}}

	for _, as := range spec.Actions {
		name := strings.TrimSpace(as.Name)
		if name == "" {
			return nil, errors.New("anim: action with empty name")
		}
		if _, ok := s.actions[name]; ok {
			return nil, fmt.Errorf("anim: action %q: %w", name, ErrDuplicateAction)
		}

		kind, err := parseKind(as.Kind)
		if err != nil {
			return nil, fmt.Errorf("anim: action %q: %w", name, err)
		}
		until, err := parseUntil(as.Until)
		if err != nil {
			return nil, fmt.Errorf("anim: action %q: %w", name, err)
		}
		if kind == KindMove && until == UntilNone {
			return nil, fmt.Errorf("anim: action %q: move actions need an until target", name)
		}
		if as.Repeat < 0 {
			return nil, fmt.Errorf("anim: action %q: negative repeat %d", name, as.Repeat)
		}
		if len(as.Poses) == 0 {
			return nil, fmt.Errorf("anim: action %q: no poses", name)
		}

		action := &Action{
			Name:     name,
			Kind:     kind,
			Repeat:   as.Repeat,
			Until:    until,
			Grounded: as.Grounded,
			Spawn:    as.Spawn,
		}
		for i, ps := range as.Poses {
			if strings.TrimSpace(ps.Image) == "" {
				return nil, fmt.Errorf("anim: action %q: pose %d has no image", name, i)
			}
			if ps.Duration < 1 {
				return nil, fmt.Errorf("anim: action %q: pose %d duration %d", name, i, ps.Duration)
			}
			action.Poses = append(action.Poses, Pose{
				Image:    ps.Image,
				Duration: ps.Duration,
				Velocity: cp.Vector{X: ps.DX, Y: ps.DY},
			})
			action.length += ps.Duration
		}

		s.actions[name] = action
		s.order = append(s.order, name)
	}

	return s, nil
}

// Lookup returns the action for name.
func (s *Set) Lookup(name string) (*Action, error) {
	action, ok := s.actions[name]
	if !ok {
		return nil, fmt.Errorf("anim: action %q: %w", name, ErrUnknownAction)
	}
	return action, nil
}

// Names returns every action name in declaration order.
func (s *Set) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Covers checks that every name in actions resolves to a compiled action.
// Table loads call this so a behavior can never point at an animation that
// does not exist.
func (s *Set) Covers(actions []string) error {
	for _, name := range actions {
		if _, err := s.Lookup(name); err != nil {
			return err
		}
	}
	return nil
}

// Images returns every sprite name the set references, first appearance
// first, without duplicates. Renderers preload from this list.
func (s *Set) Images() []string {
	var images []string
	seen := map[string]bool{}
	for _, name := range s.order {
		for _, pose := range s.actions[name].Poses {
			if seen[pose.Image] {
				continue
			}
			seen[pose.Image] = true
			images = append(images, pose.Image)
		}
	}
	return images
}
