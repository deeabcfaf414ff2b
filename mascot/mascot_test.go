package mascot

import (
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/deskpet/anim"
	"github.com/milk9111/deskpet/behavior"
	"github.com/milk9111/deskpet/env"
	"github.com/milk9111/deskpet/pack"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTableSpec() pack.TableSpec {
	return pack.TableSpec{
		Behaviors: []pack.BehaviorSpec{
			{Name: behavior.ChaseMouse, Action: "chase"},
			{Name: behavior.Fall, Action: "fall"},
			{Name: behavior.Dragged, Action: "dangle"},
			{Name: behavior.Thrown, Action: "thrown"},
			{Name: behavior.Divided, Action: "divide"},
			{Name: "stand", Weight: 10, Action: "stand"},
		},
	}
}

func testActionsSpec() pack.ActionsSpec {
	return pack.ActionsSpec{
		Actions: []pack.ActionSpec{
			{Name: "stand", Grounded: true, Poses: []pack.PoseSpec{{Image: "stand.png", Duration: 2}}},
			{Name: "chase", Kind: "move", Until: "cursor", Poses: []pack.PoseSpec{{Image: "chase.png", Duration: 2, DX: 6}}},
			{Name: "fall", Kind: "fall", Poses: []pack.PoseSpec{{Image: "fall.png", Duration: 2}}},
			{Name: "dangle", Kind: "held", Poses: []pack.PoseSpec{{Image: "dangle.png", Duration: 2}}},
			{Name: "thrown", Kind: "thrown", Poses: []pack.PoseSpec{{Image: "thrown.png", Duration: 2}}},
			{Name: "divide", Spawn: true, Poses: []pack.PoseSpec{{Image: "divide.png", Duration: 1}}},
		},
	}
}

// snapBox lets tests mutate the snapshot a ProviderFunc hands out.
type snapBox struct {
	snap env.Snapshot
}

func newSnapBox() *snapBox {
	return &snapBox{
		snap: env.Snapshot{
			WorkArea: env.NewRect(0, 0, 800, 600),
			ActiveWindow: env.Window{
				Bounds:  env.NewRect(200, 150, 500, 400),
				Visible: true,
			},
			Cursor: cp.Vector{X: 100, Y: 600},
		},
	}
}

func newTestManager(t *testing.T, box *snapBox, limit int) *Manager {
	t.Helper()

	table, err := behavior.Compile(testTableSpec(), quietLogger())
	if err != nil {
		t.Fatalf("behavior.Compile error: %v", err)
	}
	actions, err := anim.Compile(testActionsSpec())
	if err != nil {
		t.Fatalf("anim.Compile error: %v", err)
	}

	provider := env.ProviderFunc(func() env.Snapshot { return box.snap })
	return NewManager(table, actions, provider, limit, rand.New(rand.NewSource(1)), quietLogger())
}

func TestSpawnPicksBehavior(t *testing.T) {
	box := newSnapBox()
	mgr := newTestManager(t, box, 0)

	m, err := mgr.Spawn(cp.Vector{X: 400, Y: 600})
	if err != nil {
		t.Fatalf("Spawn error: %v", err)
	}
	if m.BehaviorName() != "" {
		t.Fatalf("behavior before first tick = %q, expected none", m.BehaviorName())
	}

	mgr.Update()
	if m.BehaviorName() != "stand" {
		t.Errorf("behavior after first tick = %q, expected stand", m.BehaviorName())
	}
	if m.ImageName() != "stand.png" {
		t.Errorf("image = %q, expected stand.png", m.ImageName())
	}
}

func TestSpawnCap(t *testing.T) {
	box := newSnapBox()
	mgr := newTestManager(t, box, 2)

	if _, err := mgr.Spawn(cp.Vector{X: 100, Y: 600}); err != nil {
		t.Fatalf("first Spawn error: %v", err)
	}
	if _, err := mgr.Spawn(cp.Vector{X: 200, Y: 600}); err != nil {
		t.Fatalf("second Spawn error: %v", err)
	}
	if _, err := mgr.Spawn(cp.Vector{X: 300, Y: 600}); !errors.Is(err, ErrPopulationCap) {
		t.Errorf("third Spawn error = %v, expected ErrPopulationCap", err)
	}
}

func TestRemove(t *testing.T) {
	box := newSnapBox()
	mgr := newTestManager(t, box, 0)

	m1, _ := mgr.Spawn(cp.Vector{X: 100, Y: 600})
	m2, _ := mgr.Spawn(cp.Vector{X: 200, Y: 600})

	if !mgr.Remove(m1.ID) {
		t.Fatal("Remove reported the mascot missing")
	}
	if mgr.Count() != 1 || mgr.Mascots()[0] != m2 {
		t.Error("Remove dropped the wrong mascot")
	}
	if mgr.Remove(m1.ID) {
		t.Error("Remove reported success for an already removed mascot")
	}
}

func TestAtPicksTopmost(t *testing.T) {
	box := newSnapBox()
	mgr := newTestManager(t, box, 0)

	mgr.Spawn(cp.Vector{X: 400, Y: 600})
	top, _ := mgr.Spawn(cp.Vector{X: 410, Y: 600})

	if got := mgr.At(cp.Vector{X: 405, Y: 580}); got != top {
		t.Error("At did not return the most recently spawned mascot")
	}
	if got := mgr.At(cp.Vector{X: 50, Y: 50}); got != nil {
		t.Errorf("At over empty space = %v, expected nil", got)
	}
}

func TestSurfaceVanishForcesFall(t *testing.T) {
	box := newSnapBox()
	mgr := newTestManager(t, box, 0)

	m, _ := mgr.Spawn(cp.Vector{X: 300, Y: 150})
	mgr.Update()
	if m.BehaviorName() != "stand" {
		t.Fatalf("behavior on window top = %q, expected stand", m.BehaviorName())
	}

	box.snap.ActiveWindow.Visible = false
	mgr.Update()
	if m.BehaviorName() != behavior.Fall {
		t.Fatalf("behavior after losing the surface = %q, expected fall", m.BehaviorName())
	}

	for i := 0; i < 500 && m.BehaviorName() == behavior.Fall; i++ {
		mgr.Update()
	}
	if m.BehaviorName() != "stand" {
		t.Errorf("behavior after landing = %q, expected stand", m.BehaviorName())
	}
	if m.Anchor().Y != box.snap.WorkArea.Bottom {
		t.Errorf("anchor y = %f, expected the floor %f", m.Anchor().Y, box.snap.WorkArea.Bottom)
	}
}

func TestDragAndThrow(t *testing.T) {
	box := newSnapBox()
	mgr := newTestManager(t, box, 0)

	m, _ := mgr.Spawn(cp.Vector{X: 400, Y: 600})
	mgr.Update()

	m.StartDrag()
	if !m.Dragging() {
		t.Fatal("StartDrag did not switch to the dragged behavior")
	}

	box.snap.Cursor = cp.Vector{X: 250, Y: 200}
	mgr.Update()
	if m.Anchor() != box.snap.Cursor {
		t.Fatalf("held anchor = %v, expected the cursor %v", m.Anchor(), box.snap.Cursor)
	}

	box.snap.ActiveWindow.Visible = false
	m.Release(cp.Vector{X: 4, Y: -6})
	if m.BehaviorName() != behavior.Thrown {
		t.Fatalf("behavior after release = %q, expected thrown", m.BehaviorName())
	}

	for i := 0; i < 500 && m.BehaviorName() == behavior.Thrown; i++ {
		mgr.Update()
	}
	if m.Anchor().Y != box.snap.WorkArea.Bottom {
		t.Errorf("anchor y after the throw = %f, expected the floor", m.Anchor().Y)
	}
}

func TestGatherAll(t *testing.T) {
	box := newSnapBox()
	mgr := newTestManager(t, box, 0)

	runner, _ := mgr.Spawn(cp.Vector{X: 700, Y: 600})
	held, _ := mgr.Spawn(cp.Vector{X: 400, Y: 600})
	mgr.Update()
	held.StartDrag()

	mgr.GatherAll()
	if runner.BehaviorName() != behavior.ChaseMouse {
		t.Errorf("runner behavior = %q, expected chase_mouse", runner.BehaviorName())
	}
	if !held.Dragging() {
		t.Error("GatherAll interrupted a held mascot")
	}

	for i := 0; i < 500 && runner.BehaviorName() == behavior.ChaseMouse; i++ {
		mgr.Update()
	}
	if runner.BehaviorName() != "stand" {
		t.Fatalf("runner behavior after the chase = %q, expected stand", runner.BehaviorName())
	}
	if runner.Anchor().Distance(box.snap.Cursor) > 30 {
		t.Errorf("runner stopped %f away from the cursor", runner.Anchor().Distance(box.snap.Cursor))
	}
}

func TestDivideSpawnsDeferred(t *testing.T) {
	box := newSnapBox()
	mgr := newTestManager(t, box, 0)

	parent, _ := mgr.Spawn(cp.Vector{X: 400, Y: 600})
	mgr.Update()

	parent.Divide()
	mgr.Update()

	if mgr.Count() != 2 {
		t.Fatalf("population after divide = %d, expected 2", mgr.Count())
	}
	clone := mgr.Mascots()[1]
	if clone.Anchor() != parent.Anchor() {
		t.Errorf("clone anchor = %v, expected to inherit the parent's %v", clone.Anchor(), parent.Anchor())
	}
	if clone.LookingRight() == parent.LookingRight() {
		t.Error("expected the clone to face away from its parent")
	}
}

func TestDivideBlockedAtCap(t *testing.T) {
	box := newSnapBox()
	mgr := newTestManager(t, box, 1)

	parent, _ := mgr.Spawn(cp.Vector{X: 400, Y: 600})
	mgr.Update()

	parent.Divide()
	mgr.Update()

	if mgr.Count() != 1 {
		t.Errorf("population at cap after divide = %d, expected 1", mgr.Count())
	}
}

func TestRebindKeepsBehavior(t *testing.T) {
	box := newSnapBox()
	mgr := newTestManager(t, box, 0)

	m, _ := mgr.Spawn(cp.Vector{X: 400, Y: 600})
	mgr.Update()
	anchor := m.Anchor()

	table, err := behavior.Compile(testTableSpec(), quietLogger())
	if err != nil {
		t.Fatalf("behavior.Compile error: %v", err)
	}
	actions, err := anim.Compile(testActionsSpec())
	if err != nil {
		t.Fatalf("anim.Compile error: %v", err)
	}

	mgr.Rebind(table, actions)
	if m.BehaviorName() != "stand" {
		t.Errorf("behavior after rebind = %q, expected stand", m.BehaviorName())
	}
	if m.Anchor() != anchor {
		t.Error("rebind moved the mascot")
	}

	mgr.Update()
	if m.BehaviorName() != "stand" {
		t.Errorf("behavior after post-rebind tick = %q, expected stand", m.BehaviorName())
	}
}
