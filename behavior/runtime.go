package behavior

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/milk9111/deskpet/condition"
)

// Runtime drives one mascot through a shared Table. It owns the active
// behavior name and nothing else; animation progress lives with the caller,
// which reports completion by calling Advance.
type Runtime struct {
	table   *Table
	rng     *rand.Rand
	log     *slog.Logger
	current *Definition
}

func NewRuntime(table *Table, rng *rand.Rand, log *slog.Logger) *Runtime {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runtime{table: table, rng: rng, log: log}
}

// Current returns the active definition, or nil before the first Advance.
func (r *Runtime) Current() *Definition {
	return r.current
}

// Table returns the table the runtime selects from.
func (r *Runtime) Table() *Table {
	return r.table
}

// Advance transitions to the next behavior after the active one finished.
// An empty selection pool keeps the current behavior active so the mascot
// idles in place instead of erroring. ctx must be built from a snapshot
// taken this tick.
func (r *Runtime) Advance(ctx condition.Context) *Definition {
	pool := r.table.Resolve(r.current, ctx)
	next, ok := Select(pool, r.rng)
	if !ok {
		if r.current != nil {
			r.log.Debug("empty successor pool, keeping behavior", "behavior", r.current.Name)
		}
		return r.current
	}
	r.current = next
	return next
}

// Force jumps straight to the named behavior. Interrupts (drag, throw,
// cursor chase) use this path; it bypasses selection and every condition
// gate.
func (r *Runtime) Force(name string) (*Definition, error) {
	def, err := r.table.Lookup(name)
	if err != nil {
		return nil, err
	}
	r.current = def
	return def, nil
}

// Rebind points the runtime at a freshly loaded table, keeping the current
// behavior when the new table still defines it and clearing it otherwise so
// the next Advance starts from the defaults.
func (r *Runtime) Rebind(table *Table) {
	if table == nil {
		return
	}
	r.table = table
	if r.current == nil {
		return
	}
	def, err := table.Lookup(r.current.Name)
	if err != nil {
		r.current = nil
		return
	}
	r.current = def
}
