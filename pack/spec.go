package pack

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TableSpec is the declarative behavior table as authored in behaviors.yaml.
// Top-level behaviors form the default selection pool; grouped behaviors
// join the pool only while their group's guard condition holds.
type TableSpec struct {
	Behaviors []BehaviorSpec `yaml:"behaviors"`
	Groups    []GroupSpec    `yaml:"groups"`
}

type BehaviorSpec struct {
	Name      string    `yaml:"name"`
	Weight    int       `yaml:"weight"`
	Action    string    `yaml:"action"`
	Condition string    `yaml:"condition"`
	Required  bool      `yaml:"required"`
	Next      *NextSpec `yaml:"next"`
}

type NextSpec struct {
	// Mode is "replace" or "extend"; empty means extend.
	Mode string          `yaml:"mode"`
	Refs []ReferenceSpec `yaml:"refs"`
}

type ReferenceSpec struct {
	Target    string `yaml:"target"`
	Weight    *int   `yaml:"weight"`
	Condition string `yaml:"condition"`
}

type GroupSpec struct {
	Name      string         `yaml:"name"`
	Condition string         `yaml:"condition"`
	Behaviors []BehaviorSpec `yaml:"behaviors"`
}

// ActionsSpec is the animation catalog as authored in actions.yaml. Every
// behavior's action field must name an entry here.
type ActionsSpec struct {
	Actions []ActionSpec `yaml:"actions"`
}

type ActionSpec struct {
	Name string `yaml:"name"`
	// Kind is one of animate, move, fall, held, thrown.
	Kind string `yaml:"kind"`
	// Repeat is how many extra times the pose sequence plays after the
	// first. Looping kinds (move, fall, held, thrown) ignore it.
	Repeat int `yaml:"repeat"`
	// Until names an early-completion target: "border" or "cursor".
	Until string `yaml:"until"`
	// Grounded actions need a surface under the anchor; losing it forces
	// a fall.
	Grounded bool `yaml:"grounded"`
	// Spawn marks actions that produce a new mascot when they finish.
	Spawn bool       `yaml:"spawn"`
	Poses []PoseSpec `yaml:"poses"`
}

type PoseSpec struct {
	Image    string  `yaml:"image"`
	Duration int     `yaml:"duration"`
	DX       float64 `yaml:"dx"`
	DY       float64 `yaml:"dy"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("pack: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("pack: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadTableSpec() (TableSpec, error) {
	return LoadSpec[TableSpec]("behaviors.yaml")
}

func LoadActionsSpec() (ActionsSpec, error) {
	return LoadSpec[ActionsSpec]("actions.yaml")
}
