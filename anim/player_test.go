package anim

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/deskpet/env"
	"github.com/milk9111/deskpet/pack"
)

func compileAction(t *testing.T, as pack.ActionSpec) *Action {
	t.Helper()
	set, err := Compile(pack.ActionsSpec{Actions: []pack.ActionSpec{as}})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	action, err := set.Lookup(as.Name)
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	return action
}

func testSnapshot() env.Snapshot {
	return env.Snapshot{
		WorkArea: env.NewRect(0, 0, 800, 600),
		ActiveWindow: env.Window{
			Bounds:  env.NewRect(200, 150, 500, 400),
			Visible: true,
		},
		Cursor: cp.Vector{X: 150, Y: 600},
	}
}

func TestAnimateCompletesAfterRepeats(t *testing.T) {
	action := compileAction(t, pack.ActionSpec{
		Name:   "blink",
		Repeat: 1,
		Poses: []pack.PoseSpec{
			{Image: "open.png", Duration: 2},
			{Image: "closed.png", Duration: 3},
		},
	})

	player := NewPlayer(action)
	snap := testSnapshot()
	anchor := cp.Vector{X: 400, Y: 600}

	// Two passes of a 5 tick sequence: done exactly on the 10th step.
	for i := 0; i < 9; i++ {
		frame := player.Step(anchor, true, snap)
		if frame.Done {
			t.Fatalf("step %d reported done early", i+1)
		}
		anchor = frame.Anchor
	}
	frame := player.Step(anchor, true, snap)
	if !frame.Done {
		t.Fatal("expected the 10th step to finish the action")
	}
}

func TestAnimateAppliesPoseVelocity(t *testing.T) {
	action := compileAction(t, pack.ActionSpec{
		Name:  "shuffle",
		Poses: []pack.PoseSpec{{Image: "shuffle.png", Duration: 4, DX: 2}},
	})
	snap := testSnapshot()

	player := NewPlayer(action)
	frame := player.Step(cp.Vector{X: 400, Y: 600}, true, snap)
	if frame.Anchor.X != 402 {
		t.Errorf("facing right moved to x=%f, expected 402", frame.Anchor.X)
	}

	player = NewPlayer(action)
	frame = player.Step(cp.Vector{X: 400, Y: 600}, false, snap)
	if frame.Anchor.X != 398 {
		t.Errorf("facing left moved to x=%f, expected 398", frame.Anchor.X)
	}
}

func TestMoveUntilBorder(t *testing.T) {
	action := compileAction(t, pack.ActionSpec{
		Name:  "walk",
		Kind:  "move",
		Until: "border",
		Poses: []pack.PoseSpec{{Image: "walk.png", Duration: 4, DX: 5}},
	})

	player := NewPlayer(action)
	snap := testSnapshot()
	anchor := cp.Vector{X: 780, Y: 600}

	var frame Frame
	for i := 0; i < 100; i++ {
		frame = player.Step(anchor, true, snap)
		anchor = frame.Anchor
		if frame.Done {
			break
		}
	}

	if !frame.Done || !frame.HitBorder {
		t.Fatalf("walk never hit the border: done=%t hitBorder=%t", frame.Done, frame.HitBorder)
	}
	if anchor.X != snap.WorkArea.Right {
		t.Errorf("anchor stopped at x=%f, expected the right edge %f", anchor.X, snap.WorkArea.Right)
	}
}

func TestMoveUntilCursor(t *testing.T) {
	action := compileAction(t, pack.ActionSpec{
		Name:  "chase",
		Kind:  "move",
		Until: "cursor",
		Poses: []pack.PoseSpec{{Image: "chase.png", Duration: 4, DX: 6}},
	})

	player := NewPlayer(action)
	snap := testSnapshot()
	anchor := cp.Vector{X: 400, Y: 600}

	var frame Frame
	done := false
	for i := 0; i < 200 && !done; i++ {
		// Chasing mascots face the cursor, which sits to the left here.
		frame = player.Step(anchor, false, snap)
		anchor = frame.Anchor
		done = frame.Done
	}

	if !done {
		t.Fatal("chase never reached the cursor")
	}
	if anchor.Distance(snap.Cursor) > cursorReach {
		t.Errorf("anchor finished %f away from the cursor, expected within %f", anchor.Distance(snap.Cursor), cursorReach)
	}
}

func TestFallLandsOnWindowTop(t *testing.T) {
	action := compileAction(t, pack.ActionSpec{
		Name:  "fall",
		Kind:  "fall",
		Poses: []pack.PoseSpec{{Image: "fall.png", Duration: 4}},
	})

	player := NewPlayer(action)
	snap := testSnapshot()
	anchor := cp.Vector{X: 300, Y: 100}

	var frame Frame
	done := false
	for i := 0; i < 500 && !done; i++ {
		frame = player.Step(anchor, true, snap)
		anchor = frame.Anchor
		done = frame.Done
	}

	if !done {
		t.Fatal("fall never landed")
	}
	if anchor.Y != snap.ActiveWindow.Bounds.Top {
		t.Errorf("landed at y=%f, expected the window top %f", anchor.Y, snap.ActiveWindow.Bounds.Top)
	}
}

func TestFallLandsOnFloor(t *testing.T) {
	action := compileAction(t, pack.ActionSpec{
		Name:  "fall",
		Kind:  "fall",
		Poses: []pack.PoseSpec{{Image: "fall.png", Duration: 4}},
	})

	player := NewPlayer(action)
	snap := testSnapshot()
	snap.ActiveWindow.Visible = false
	anchor := cp.Vector{X: 300, Y: 100}

	done := false
	for i := 0; i < 500 && !done; i++ {
		frame := player.Step(anchor, true, snap)
		anchor = frame.Anchor
		done = frame.Done
	}

	if !done {
		t.Fatal("fall never landed")
	}
	if anchor.Y != snap.WorkArea.Bottom {
		t.Errorf("landed at y=%f, expected the floor %f", anchor.Y, snap.WorkArea.Bottom)
	}
}

func TestThrownClampsAtWall(t *testing.T) {
	action := compileAction(t, pack.ActionSpec{
		Name:  "thrown",
		Kind:  "thrown",
		Poses: []pack.PoseSpec{{Image: "thrown.png", Duration: 4}},
	})

	player := NewPlayer(action)
	player.SetVelocity(cp.Vector{X: 40, Y: -2})
	snap := testSnapshot()
	snap.ActiveWindow.Visible = false
	anchor := cp.Vector{X: 700, Y: 500}

	done := false
	for i := 0; i < 500 && !done; i++ {
		frame := player.Step(anchor, true, snap)
		anchor = frame.Anchor
		done = frame.Done
	}

	if !done {
		t.Fatal("throw never landed")
	}
	if anchor.X != snap.WorkArea.Right {
		t.Errorf("anchor landed at x=%f, expected to ride the right wall %f", anchor.X, snap.WorkArea.Right)
	}
	if anchor.Y != snap.WorkArea.Bottom {
		t.Errorf("anchor landed at y=%f, expected the floor %f", anchor.Y, snap.WorkArea.Bottom)
	}
}

func TestHeldPinsToCursor(t *testing.T) {
	action := compileAction(t, pack.ActionSpec{
		Name:  "dangle",
		Kind:  "held",
		Poses: []pack.PoseSpec{{Image: "dangle.png", Duration: 4}},
	})

	player := NewPlayer(action)
	snap := testSnapshot()
	snap.Cursor = cp.Vector{X: 321, Y: 123}

	anchor := cp.Vector{X: 400, Y: 600}
	for i := 0; i < 100; i++ {
		frame := player.Step(anchor, true, snap)
		if frame.Done {
			t.Fatal("held actions must never finish on their own")
		}
		if frame.Anchor != snap.Cursor {
			t.Fatalf("anchor = %v, expected to pin to the cursor %v", frame.Anchor, snap.Cursor)
		}
		anchor = frame.Anchor
	}
}
