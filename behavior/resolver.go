package behavior

import (
	"github.com/milk9111/deskpet/condition"
)

// Candidate pairs a definition with the weight it entered the pool with. A
// successor reference may carry a different weight than the definition's
// own, so the effective weight travels with the candidate.
type Candidate struct {
	Def    *Definition
	Weight int
}

// Resolve computes the selection pool for a mascot whose behavior just
// finished. finished may be nil for a mascot picking its first behavior, in
// which case the pool is the defaults plus any active groups.
//
// A definition enters the pool through the first of these paths that admits
// it: the finishing behavior's own successor reference, the default pool
// (extend mode only), an active guarded group (extend mode only), or the
// required-interrupt fallback. A path admits a definition when its weight is
// positive and every gate on the path holds. Gate evaluation errors count as
// false.
//
// ctx must be built from a snapshot taken this tick; stale geometry makes
// border conditions lie.
func (t *Table) Resolve(finished *Definition, ctx condition.Context) []Candidate {
	active := make([]bool, len(t.groups))
	for i, g := range t.groups {
		active[i] = t.pass(g.cond, ctx)
	}

	var refs map[string]Reference
	if finished != nil && len(finished.Refs) > 0 {
		refs = make(map[string]Reference, len(finished.Refs))
		for _, ref := range finished.Refs {
			if _, ok := refs[ref.Target]; !ok {
				refs[ref.Target] = ref
			}
		}
	}

	withDefaults := finished == nil || finished.Mode == Extend

	var pool []Candidate
	for _, def := range t.order {
		if c, ok := t.admit(def, refs, withDefaults, active, ctx); ok {
			pool = append(pool, c)
		}
	}
	return pool
}

func (t *Table) admit(def *Definition, refs map[string]Reference, withDefaults bool, active []bool, ctx condition.Context) (Candidate, bool) {
	if ref, ok := refs[def.Name]; ok {
		if ref.Weight > 0 && t.pass(ref.Condition, ctx) && t.pass(def.Condition, ctx) {
			return Candidate{Def: def, Weight: ref.Weight}, true
		}
	}

	if withDefaults && def.Weight > 0 {
		if gi, grouped := t.groupOf[def.Name]; grouped {
			if active[gi] && t.pass(def.Condition, ctx) {
				return Candidate{Def: def, Weight: def.Weight}, true
			}
		} else if t.pass(def.Condition, ctx) {
			return Candidate{Def: def, Weight: def.Weight}, true
		}
	}

	// Required interrupts stay reachable even when a replace-mode successor
	// list or an inactive group guard would exclude them; their own
	// condition is the only gate.
	if def.Required && def.Weight > 0 && t.pass(def.Condition, ctx) {
		return Candidate{Def: def, Weight: def.Weight}, true
	}

	return Candidate{}, false
}

func (t *Table) pass(expr *condition.Expr, ctx condition.Context) bool {
	if expr == nil {
		return true
	}
	ok, err := expr.Eval(ctx)
	if err != nil {
		t.log.Warn("condition evaluation failed, treating as false", "expr", expr.Source(), "error", err)
		return false
	}
	return ok
}
