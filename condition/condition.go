package condition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/deskpet/env"
)

const resultVar = "__result"

var ErrEmptyExpression = errors.New("condition: empty expression")

// Context carries everything a condition expression can read for one
// evaluation: the mascot asking the question and the desktop around it.
type Context struct {
	Anchor       cp.Vector
	LookingRight bool
	TotalCount   int
	Env          env.Snapshot
}

// Expr is a compiled boolean expression. Expressions see two globals:
//
//	mascot.anchor.x / mascot.anchor.y
//	mascot.looking_right
//	mascot.total_count
//	env.work_area.{left,top,right,bottom,width,height}
//	env.active_window.visible
//	env.active_window.bounds.{left,top,right,bottom,width,height}
//	env.active_window.{top_border,bottom_border,left_border,right_border}.is_on(p)
//	env.floor.is_on(p) / env.ceiling.is_on(p)
//	env.cursor.x / env.cursor.y
//
// An Expr is compiled once and may be shared; each evaluation runs on a
// clone so evaluating from multiple goroutines is safe.
type Expr struct {
	src      string
	compiled *tengo.Compiled
}

// Compile parses and compiles src. Malformed expressions and references to
// unknown globals fail here rather than at evaluation time.
func Compile(src string) (*Expr, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, ErrEmptyExpression
	}

	script := tengo.NewScript([]byte(fmt.Sprintf("%s := (%s)", resultVar, trimmed)))
	_ = script.Add("mascot", map[string]any{})
	_ = script.Add("env", map[string]any{})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("condition: compile %q: %w", trimmed, err)
	}

	return &Expr{src: trimmed, compiled: compiled}, nil
}

// Source returns the expression text as written in the pack.
func (e *Expr) Source() string {
	if e == nil {
		return ""
	}
	return e.src
}

// Eval runs the expression against ctx. A runtime error or a non-boolean
// result is returned as an error; callers decide what false means.
func (e *Expr) Eval(ctx Context) (bool, error) {
	if e == nil || e.compiled == nil {
		return false, errors.New("condition: nil expression")
	}

	c := e.compiled.Clone()
	if err := c.Set("mascot", mascotObject(ctx)); err != nil {
		return false, fmt.Errorf("condition: set mascot: %w", err)
	}
	if err := c.Set("env", envObject(ctx.Env)); err != nil {
		return false, fmt.Errorf("condition: set env: %w", err)
	}
	if err := c.Run(); err != nil {
		return false, fmt.Errorf("condition: eval %q: %w", e.src, err)
	}

	res := c.Get(resultVar).Object()
	b, ok := res.(*tengo.Bool)
	if !ok {
		return false, fmt.Errorf("condition: %q evaluated to %s, expected bool", e.src, res.TypeName())
	}
	return !b.IsFalsy(), nil
}

func mascotObject(ctx Context) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"anchor":        vectorObject(ctx.Anchor),
		"looking_right": boolObject(ctx.LookingRight),
		"total_count":   &tengo.Int{Value: int64(ctx.TotalCount)},
	}}
}

func envObject(snap env.Snapshot) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"work_area":     rectObject(snap.WorkArea),
		"active_window": windowObject(snap.ActiveWindow),
		"floor":         borderObject(snap.Floor(), true),
		"ceiling":       borderObject(snap.Ceiling(), true),
		"cursor":        vectorObject(snap.Cursor),
	}}
}

func windowObject(w env.Window) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"visible":       boolObject(w.Visible),
		"bounds":        rectObject(w.Bounds),
		"top_border":    borderObject(w.Bounds.TopBorder(), w.Visible),
		"bottom_border": borderObject(w.Bounds.BottomBorder(), w.Visible),
		"left_border":   borderObject(w.Bounds.LeftBorder(), w.Visible),
		"right_border":  borderObject(w.Bounds.RightBorder(), w.Visible),
	}}
}

func borderObject(b env.Border, active bool) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"is_on": &tengo.UserFunction{Name: "is_on", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if !active {
				return tengo.FalseValue, nil
			}
			p, ok := vectorArg(args)
			if !ok {
				return tengo.FalseValue, nil
			}
			return boolObject(b.IsOn(p)), nil
		}},
	}}
}

func rectObject(r env.Rect) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"left":   &tengo.Float{Value: r.Left},
		"top":    &tengo.Float{Value: r.Top},
		"right":  &tengo.Float{Value: r.Right},
		"bottom": &tengo.Float{Value: r.Bottom},
		"width":  &tengo.Float{Value: r.Width()},
		"height": &tengo.Float{Value: r.Height()},
	}}
}

func vectorObject(v cp.Vector) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"x": &tengo.Float{Value: v.X},
		"y": &tengo.Float{Value: v.Y},
	}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

// vectorArg reads a point passed either as an {x, y} map (is_on(mascot.anchor))
// or as two numbers (is_on(10, 20)).
func vectorArg(args []tengo.Object) (cp.Vector, bool) {
	if len(args) == 2 {
		x, okX := floatValue(args[0])
		y, okY := floatValue(args[1])
		if !okX || !okY {
			return cp.Vector{}, false
		}
		return cp.Vector{X: x, Y: y}, true
	}
	if len(args) != 1 {
		return cp.Vector{}, false
	}

	var fields map[string]tengo.Object
	switch m := args[0].(type) {
	case *tengo.Map:
		fields = m.Value
	case *tengo.ImmutableMap:
		fields = m.Value
	default:
		return cp.Vector{}, false
	}

	x, okX := floatValue(fields["x"])
	y, okY := floatValue(fields["y"])
	if !okX || !okY {
		return cp.Vector{}, false
	}
	return cp.Vector{X: x, Y: y}, true
}

func floatValue(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	default:
		return 0, false
	}
}
