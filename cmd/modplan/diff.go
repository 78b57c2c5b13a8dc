package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	modplan "github.com/albertocavalcante/go-modplan"
	"github.com/albertocavalcante/go-modplan/planfile"
)

func newDiffCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old.json> <new.json>",
		Short: "Compare two stored build plans",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldFile, err := planfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			newFile, err := planfile.ReadFile(args[1])
			if err != nil {
				return err
			}
			writeDiff(cmd.OutOrStdout(), modplan.DiffPlans(oldFile.Plan, newFile.Plan))
			return nil
		},
	}
}

func writeDiff(w io.Writer, d *modplan.PlanDiff) {
	if d.IsEmpty() {
		fmt.Fprintln(w, "no changes")
		return
	}
	for _, name := range d.Added {
		fmt.Fprintf(w, "+ %s\n", name)
	}
	for _, name := range d.Removed {
		fmt.Fprintf(w, "- %s\n", name)
	}
	for _, m := range d.Moved {
		fmt.Fprintf(w, "~ %s: position %d -> %d\n", m.Name, m.OldPosition, m.NewPosition)
	}
	for _, e := range d.AddedEdges {
		fmt.Fprintf(w, "+ %s -> %s (%s)\n", e.From, e.To, e.Visibility)
	}
	for _, e := range d.RemovedEdges {
		fmt.Fprintf(w, "- %s -> %s (%s)\n", e.From, e.To, e.Visibility)
	}
	fmt.Fprintf(w, "%d change(s)\n", d.TotalChanges())
}
