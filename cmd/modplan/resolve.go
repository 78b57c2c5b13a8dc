package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	modplan "github.com/albertocavalcante/go-modplan"
	"github.com/albertocavalcante/go-modplan/planfile"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
		check  string
	)

	cmd := &cobra.Command{
		Use:   "resolve <root> [roots...]",
		Short: "Compute the build plan for one or more root modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}
			if len(args) > 1 && (out != "" || check != "") {
				return fmt.Errorf("--out and --check take a single root")
			}

			resolver, err := a.resolver(cmd.Context())
			if err != nil {
				return err
			}
			plans, err := resolver.ResolveAll(cmd.Context(), args...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, root := range args {
				plan := plans[root]
				if check != "" {
					return checkPlan(w, check, plan)
				}
				if out != "" {
					if err := planfile.New(plan).WriteFile(out); err != nil {
						return fmt.Errorf("write plan: %w", err)
					}
					a.logger.Info("plan written", "root", root, "file", out)
				}
				if i > 0 && format == "text" {
					fmt.Fprintln(w)
				}
				if err := writePlan(w, plan, format); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "also write the plan to this file")
	cmd.Flags().StringVar(&check, "check", "", "compare against a stored plan file; exit 1 if it is stale")
	cmd.MarkFlagsMutuallyExclusive("out", "check")
	return cmd
}

func writePlan(w io.Writer, plan *modplan.BuildPlan, format string) error {
	if format == "json" {
		_, err := planfile.New(plan).WriteTo(w)
		return err
	}

	fmt.Fprintf(w, "Build plan for %s\n", plan.Root)
	for i, name := range plan.Order {
		desc := plan.Modules[name]
		fmt.Fprintf(w, "%3d. %s [%s, %s]\n", i+1, name, desc.LanguageStandard, desc.PCHMode)
		if deps := plan.DependenciesOf(name, modplan.VisibilityPublic); len(deps) > 0 {
			fmt.Fprintf(w, "       public:  %s\n", strings.Join(deps, ", "))
		}
		if deps := plan.DependenciesOf(name, modplan.VisibilityPrivate); len(deps) > 0 {
			fmt.Fprintf(w, "       private: %s\n", strings.Join(deps, ", "))
		}
	}
	if len(plan.Disabled) > 0 {
		fmt.Fprintln(w, "Disabled dependencies:")
		for _, d := range plan.Disabled {
			status := "not in registry"
			if d.Available {
				status = "available but unused"
			}
			fmt.Fprintf(w, "  %s -> %s (%s)\n", d.Module, d.Name, status)
		}
	}
	return nil
}

func checkPlan(w io.Writer, path string, plan *modplan.BuildPlan) error {
	stored, err := planfile.ReadFile(path)
	if err != nil {
		return err
	}
	if !stored.Stale(plan) {
		fmt.Fprintf(w, "%s is up to date\n", path)
		return nil
	}
	writeDiff(w, modplan.DiffPlans(stored.Plan, plan))
	return &ExitError{Code: 1, Err: fmt.Errorf("%s is stale", path)}
}
