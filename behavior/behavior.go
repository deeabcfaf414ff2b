package behavior

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/milk9111/deskpet/condition"
	"github.com/milk9111/deskpet/pack"
)

// Names of the interrupt behaviors every table must define. They stay
// reachable no matter which behavior is active so a mascot can always be
// picked up, thrown, fall, chase the cursor, or split.
const (
	ChaseMouse = "chase_mouse"
	Fall       = "fall"
	Dragged    = "dragged"
	Thrown     = "thrown"
	Divided    = "divided"
)

var requiredNames = []string{ChaseMouse, Fall, Dragged, Thrown, Divided}

var (
	ErrUnknownBehavior   = errors.New("behavior: unknown behavior")
	ErrDuplicateName     = errors.New("behavior: duplicate behavior name")
	ErrDanglingReference = errors.New("behavior: dangling successor reference")
	ErrBadWeight         = errors.New("behavior: negative weight")
	ErrMissingRequired   = errors.New("behavior: missing required behavior")
)

// Mode controls how a behavior's declared successors combine with the
// default pool when the behavior finishes.
type Mode int

const (
	// Extend adds the declared references on top of the default pool.
	Extend Mode = iota
	// Replace limits successors to the declared references plus the
	// required interrupts.
	Replace
)

func (m Mode) String() string {
	if m == Replace {
		return "replace"
	}
	return "extend"
}

func parseMode(s string) (Mode, error) {
	switch strings.TrimSpace(s) {
	case "", "extend":
		return Extend, nil
	case "replace":
		return Replace, nil
	default:
		return Extend, fmt.Errorf("behavior: invalid successor mode %q", s)
	}
}

// Reference names one successor along with the weight and optional gate
// used when the owning behavior finishes.
type Reference struct {
	Target    string
	Weight    int
	Condition *condition.Expr
}

// Definition is one named behavior. Definitions are built once by Compile
// and never mutated afterwards.
type Definition struct {
	Name      string
	Weight    int
	Action    string
	Condition *condition.Expr
	Required  bool
	Mode      Mode
	Refs      []Reference
}

type group struct {
	name    string
	cond    *condition.Expr
	members []*Definition
}

// Table holds every definition plus the guarded groups. It is frozen after
// Compile returns and is shared by reference across all mascots.
type Table struct {
	defs     map[string]*Definition
	order    []*Definition
	groups   []group
	groupOf  map[string]int
	required []*Definition
	log      *slog.Logger
}

// Compile builds a Table from its declarative source. Any duplicate name,
// dangling successor reference, negative weight, malformed condition, or
// missing required behavior fails the whole load; no partial table is
// returned.
func Compile(spec pack.TableSpec, log *slog.Logger) (*Table, error) {
	if log == nil {
		log = slog.Default()
	}

	t := &Table{
		defs:    map[string]*Definition{},
		groupOf: map[string]int{},
		log:     log,
	}

	type pendingRefs struct {
		def  *Definition
		refs []pack.ReferenceSpec
	}
	var pending []pendingRefs

	addDef := func(bs pack.BehaviorSpec) (*Definition, error) {
		name := strings.TrimSpace(bs.Name)
		if name == "" {
			return nil, errors.New("behavior: definition with empty name")
		}
		if _, ok := t.defs[name]; ok {
			return nil, fmt.Errorf("behavior %q: %w", name, ErrDuplicateName)
		}
		if bs.Weight < 0 {
			return nil, fmt.Errorf("behavior %q: weight %d: %w", name, bs.Weight, ErrBadWeight)
		}

		def := &Definition{
			Name:     name,
			Weight:   bs.Weight,
			Action:   strings.TrimSpace(bs.Action),
			Required: bs.Required,
		}
		if def.Action == "" {
			def.Action = name
		}

		if strings.TrimSpace(bs.Condition) != "" {
			expr, err := condition.Compile(bs.Condition)
			if err != nil {
				return nil, fmt.Errorf("behavior %q: %w", name, err)
			}
			def.Condition = expr
		}

		if bs.Next != nil {
			mode, err := parseMode(bs.Next.Mode)
			if err != nil {
				return nil, fmt.Errorf("behavior %q: %w", name, err)
			}
			def.Mode = mode
			pending = append(pending, pendingRefs{def: def, refs: bs.Next.Refs})
		}

		t.defs[name] = def
		t.order = append(t.order, def)
		return def, nil
	}

	for _, bs := range spec.Behaviors {
		if _, err := addDef(bs); err != nil {
			return nil, err
		}
	}

	for i, gs := range spec.Groups {
		g := group{name: strings.TrimSpace(gs.Name)}
		if g.name == "" {
			g.name = fmt.Sprintf("group %d", i+1)
		}
		if strings.TrimSpace(gs.Condition) != "" {
			expr, err := condition.Compile(gs.Condition)
			if err != nil {
				return nil, fmt.Errorf("behavior: group %q: %w", g.name, err)
			}
			g.cond = expr
		}
		for _, bs := range gs.Behaviors {
			def, err := addDef(bs)
			if err != nil {
				return nil, err
			}
			g.members = append(g.members, def)
			t.groupOf[def.Name] = i
		}
		t.groups = append(t.groups, g)
	}

	for _, p := range pending {
		for _, rs := range p.refs {
			target := strings.TrimSpace(rs.Target)
			tdef, ok := t.defs[target]
			if !ok {
				return nil, fmt.Errorf("behavior %q: successor %q: %w", p.def.Name, target, ErrDanglingReference)
			}

			weight := tdef.Weight
			if rs.Weight != nil {
				if *rs.Weight < 0 {
					return nil, fmt.Errorf("behavior %q: successor %q: weight %d: %w", p.def.Name, target, *rs.Weight, ErrBadWeight)
				}
				weight = *rs.Weight
			}

			ref := Reference{Target: target, Weight: weight}
			if strings.TrimSpace(rs.Condition) != "" {
				expr, err := condition.Compile(rs.Condition)
				if err != nil {
					return nil, fmt.Errorf("behavior %q: successor %q: %w", p.def.Name, target, err)
				}
				ref.Condition = expr
			}
			p.def.Refs = append(p.def.Refs, ref)
		}
	}

	for _, name := range requiredNames {
		def, ok := t.defs[name]
		if !ok {
			return nil, fmt.Errorf("behavior %q: %w", name, ErrMissingRequired)
		}
		def.Required = true
	}
	for _, def := range t.order {
		if def.Required {
			t.required = append(t.required, def)
		}
	}

	return t, nil
}

// Lookup returns the definition for name.
func (t *Table) Lookup(name string) (*Definition, error) {
	def, ok := t.defs[name]
	if !ok {
		return nil, fmt.Errorf("behavior %q: %w", name, ErrUnknownBehavior)
	}
	return def, nil
}

// Names returns every behavior name in declaration order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.order))
	for _, def := range t.order {
		names = append(names, def.Name)
	}
	return names
}

// Actions returns each behavior's action name in declaration order.
func (t *Table) Actions() []string {
	actions := make([]string, 0, len(t.order))
	for _, def := range t.order {
		actions = append(actions, def.Action)
	}
	return actions
}

// Len returns the number of definitions in the table.
func (t *Table) Len() int {
	return len(t.order)
}
