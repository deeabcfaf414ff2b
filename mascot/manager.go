package mascot

import (
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/deskpet/anim"
	"github.com/milk9111/deskpet/behavior"
	"github.com/milk9111/deskpet/env"
)

// DefaultPopulationCap bounds how many mascots a divide chain can produce.
const DefaultPopulationCap = 50

var ErrPopulationCap = errors.New("mascot: population cap reached")

// Manager owns the live population and runs the shared tick. Mascots are
// advanced in sequence on one goroutine; divide spawns are deferred to the
// end of the tick so the population never grows mid-iteration.
type Manager struct {
	table    *behavior.Table
	actions  *anim.Set
	provider env.Provider
	limit    int
	rng      *rand.Rand
	log      *slog.Logger

	mascots []*Mascot
}

func NewManager(table *behavior.Table, actions *anim.Set, provider env.Provider, limit int, rng *rand.Rand, log *slog.Logger) *Manager {
	if limit <= 0 {
		limit = DefaultPopulationCap
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		table:    table,
		actions:  actions,
		provider: provider,
		limit:    limit,
		rng:      rng,
		log:      log,
	}
}

// Spawn adds a mascot at the given anchor. It must be called between ticks,
// never from inside Update.
func (g *Manager) Spawn(at cp.Vector) (*Mascot, error) {
	if len(g.mascots) >= g.limit {
		return nil, ErrPopulationCap
	}
	m := New(g.table, g.actions, at, g.rng, g.log)
	g.mascots = append(g.mascots, m)
	g.log.Info("mascot spawned", "mascot", m.ID, "x", at.X, "y", at.Y, "population", len(g.mascots))
	return m, nil
}

// Remove drops the mascot with the given id. It must be called between
// ticks, never from inside Update.
func (g *Manager) Remove(id uuid.UUID) bool {
	for i, m := range g.mascots {
		if m.ID == id {
			g.mascots = append(g.mascots[:i], g.mascots[i+1:]...)
			g.log.Info("mascot removed", "mascot", id, "population", len(g.mascots))
			return true
		}
	}
	return false
}

// Update runs one tick: it takes a fresh snapshot, advances every mascot
// against it, then applies any divide spawns that the pass produced.
func (g *Manager) Update() {
	snap := g.provider.Snapshot()
	total := len(g.mascots)

	var parents []*Mascot
	for _, m := range g.mascots {
		if m.Update(snap, total) {
			parents = append(parents, m)
		}
	}

	for _, parent := range parents {
		if len(g.mascots) >= g.limit {
			g.log.Warn("divide blocked by population cap", "mascot", parent.ID, "cap", g.limit)
			continue
		}
		clone := New(g.table, g.actions, parent.Anchor(), g.rng, g.log)
		clone.lookingRight = !parent.lookingRight
		g.mascots = append(g.mascots, clone)
		g.log.Info("mascot divided", "parent", parent.ID, "mascot", clone.ID, "population", len(g.mascots))
	}
}

// Mascots returns the live population in spawn order. The slice is owned by
// the manager; callers only iterate it.
func (g *Manager) Mascots() []*Mascot {
	return g.mascots
}

func (g *Manager) Count() int {
	return len(g.mascots)
}

// Cap is the population limit spawns and divides are checked against.
func (g *Manager) Cap() int {
	return g.limit
}

// At returns the topmost mascot under p, or nil. Later spawns draw on top,
// so the scan runs back to front.
func (g *Manager) At(p cp.Vector) *Mascot {
	for i := len(g.mascots) - 1; i >= 0; i-- {
		if g.mascots[i].Contains(p) {
			return g.mascots[i]
		}
	}
	return nil
}

// GatherAll sends every mascot chasing the cursor. Held mascots stay on the
// cursor instead.
func (g *Manager) GatherAll() {
	for _, m := range g.mascots {
		if m.Dragging() {
			continue
		}
		m.Chase()
	}
}

// Rebind swaps in freshly loaded tables after a pack reload. Every mascot
// keeps its anchor and, when possible, its behavior.
func (g *Manager) Rebind(table *behavior.Table, actions *anim.Set) {
	g.table = table
	g.actions = actions
	for _, m := range g.mascots {
		m.Rebind(table, actions)
	}
	g.log.Info("behavior pack rebound", "behaviors", table.Len(), "population", len(g.mascots))
}
