package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/milk9111/deskpet/anim"
	"github.com/milk9111/deskpet/behavior"
	"github.com/milk9111/deskpet/pack"
)

// petlint compiles a behavior pack the same way the app does and reports
// what it finds. Exit status 1 means the pack would not load.
func main() {
	dir := flag.String("dir", "", "directory holding the pack/ override to lint (default: current directory)")
	verbose := flag.Bool("v", false, "list every behavior and action")
	flag.Parse()

	if *dir != "" {
		if err := os.Chdir(*dir); err != nil {
			fail(err)
		}
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tableSpec, err := pack.LoadTableSpec()
	if err != nil {
		fail(err)
	}
	table, err := behavior.Compile(tableSpec, log)
	if err != nil {
		fail(err)
	}

	actionsSpec, err := pack.LoadActionsSpec()
	if err != nil {
		fail(err)
	}
	actions, err := anim.Compile(actionsSpec)
	if err != nil {
		fail(err)
	}

	if err := actions.Covers(table.Actions()); err != nil {
		fail(err)
	}

	required := 0
	for _, name := range table.Names() {
		def, _ := table.Lookup(name)
		if def.Required {
			required++
		}
	}

	fmt.Printf("behaviors.yaml: %d behaviors (%d top-level, %d groups), %d required\n",
		table.Len(), len(tableSpec.Behaviors), len(tableSpec.Groups), required)
	fmt.Printf("actions.yaml: %d actions, %d sprites\n",
		len(actions.Names()), len(actions.Images()))

	if *verbose {
		fmt.Println()
		for _, name := range table.Names() {
			def, _ := table.Lookup(name)
			fmt.Println(describeBehavior(def))
		}
		fmt.Println()
		for _, name := range actions.Names() {
			action, _ := actions.Lookup(name)
			fmt.Printf("%-16s %-8s %d poses\n", action.Name, action.Kind, len(action.Poses))
		}
	}

	fmt.Println("ok")
}

func describeBehavior(def *behavior.Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s weight %3d  action %-16s %s", def.Name, def.Weight, def.Action, def.Mode)
	if len(def.Refs) > 0 {
		names := make([]string, 0, len(def.Refs))
		for _, ref := range def.Refs {
			names = append(names, fmt.Sprintf("%s(%d)", ref.Target, ref.Weight))
		}
		fmt.Fprintf(&b, "  refs: %s", strings.Join(names, ", "))
	}
	if def.Required {
		b.WriteString("  [required]")
	}
	return b.String()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "petlint:", err)
	os.Exit(1)
}
