package anim

import (
	"errors"
	"testing"

	"github.com/milk9111/deskpet/pack"
)

func standPose() []pack.PoseSpec {
	return []pack.PoseSpec{{Image: "stand.png", Duration: 10}}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		spec pack.ActionsSpec
	}{
		{
			name: "empty action name",
			spec: pack.ActionsSpec{Actions: []pack.ActionSpec{
				{Name: "", Poses: standPose()},
			}},
		},
		{
			name: "duplicate action",
			spec: pack.ActionsSpec{Actions: []pack.ActionSpec{
				{Name: "stand", Poses: standPose()},
				{Name: "stand", Poses: standPose()},
			}},
		},
		{
			name: "unknown kind",
			spec: pack.ActionsSpec{Actions: []pack.ActionSpec{
				{Name: "stand", Kind: "wiggle", Poses: standPose()},
			}},
		},
		{
			name: "unknown until",
			spec: pack.ActionsSpec{Actions: []pack.ActionSpec{
				{Name: "walk", Kind: "move", Until: "moon", Poses: standPose()},
			}},
		},
		{
			name: "move without until",
			spec: pack.ActionsSpec{Actions: []pack.ActionSpec{
				{Name: "walk", Kind: "move", Poses: standPose()},
			}},
		},
		{
			name: "no poses",
			spec: pack.ActionsSpec{Actions: []pack.ActionSpec{
				{Name: "stand"},
			}},
		},
		{
			name: "pose without image",
			spec: pack.ActionsSpec{Actions: []pack.ActionSpec{
				{Name: "stand", Poses: []pack.PoseSpec{{Duration: 10}}},
			}},
		},
		{
			name: "zero duration pose",
			spec: pack.ActionsSpec{Actions: []pack.ActionSpec{
				{Name: "stand", Poses: []pack.PoseSpec{{Image: "stand.png"}}},
			}},
		},
		{
			name: "negative repeat",
			spec: pack.ActionsSpec{Actions: []pack.ActionSpec{
				{Name: "stand", Repeat: -1, Poses: standPose()},
			}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Compile(test.spec); err == nil {
				t.Fatal("Compile succeeded, expected error")
			}
		})
	}
}

func TestCompileAndLookup(t *testing.T) {
	spec := pack.ActionsSpec{Actions: []pack.ActionSpec{
		{Name: "stand", Poses: standPose()},
		{
			Name:  "walk",
			Kind:  "move",
			Until: "border",
			Poses: []pack.PoseSpec{
				{Image: "walk_a.png", Duration: 4, DX: 2},
				{Image: "walk_b.png", Duration: 4, DX: 2},
			},
		},
	}}

	set, err := Compile(spec)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	walk, err := set.Lookup("walk")
	if err != nil {
		t.Fatalf("Lookup(walk) error: %v", err)
	}
	if walk.Kind != KindMove || walk.Until != UntilBorder {
		t.Errorf("walk compiled to kind=%s until=%d, expected move until border", walk.Kind, walk.Until)
	}
	if walk.length != 8 {
		t.Errorf("walk length = %d, expected 8", walk.length)
	}

	if _, err := set.Lookup("moonwalk"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Lookup(moonwalk) error = %v, expected ErrUnknownAction", err)
	}

	names := set.Names()
	if len(names) != 2 || names[0] != "stand" || names[1] != "walk" {
		t.Errorf("Names() = %v, expected declaration order", names)
	}
}

func TestPoseAt(t *testing.T) {
	spec := pack.ActionsSpec{Actions: []pack.ActionSpec{
		{
			Name: "blink",
			Poses: []pack.PoseSpec{
				{Image: "open.png", Duration: 3},
				{Image: "closed.png", Duration: 2},
			},
		},
	}}
	set, err := Compile(spec)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	blink, _ := set.Lookup("blink")

	tests := []struct {
		tick int
		want string
	}{
		{tick: 0, want: "open.png"},
		{tick: 2, want: "open.png"},
		{tick: 3, want: "closed.png"},
		{tick: 4, want: "closed.png"},
		{tick: 5, want: "open.png"},
		{tick: 8, want: "closed.png"},
	}

	for _, test := range tests {
		if got := blink.poseAt(test.tick); got.Image != test.want {
			t.Errorf("poseAt(%d) = %q, expected %q", test.tick, got.Image, test.want)
		}
	}
}

func TestCovers(t *testing.T) {
	spec := pack.ActionsSpec{Actions: []pack.ActionSpec{
		{Name: "stand", Poses: standPose()},
	}}
	set, err := Compile(spec)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	if err := set.Covers([]string{"stand"}); err != nil {
		t.Errorf("Covers(stand) error: %v", err)
	}
	if err := set.Covers([]string{"stand", "moonwalk"}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Covers with a missing action = %v, expected ErrUnknownAction", err)
	}
}
