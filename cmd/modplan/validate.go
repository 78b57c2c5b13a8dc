package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	modplan "github.com/albertocavalcante/go-modplan"
	"github.com/albertocavalcante/go-modplan/loader"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate descriptors and check that every module resolves",
		Long: `Validate loads descriptors and reports every problem it finds.

With file arguments, only those files are checked: each descriptor is
validated and module names must be unique across the files.

Without arguments, every registry directory is loaded and each module in it
is resolved, so missing dependencies and cycles are reported too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int
			var err error
			if len(args) > 0 {
				n, err = a.validateFiles(cmd.OutOrStdout(), args)
			} else {
				n, err = a.validateRegistries(cmd)
			}
			if err != nil {
				return err
			}
			if n > 0 {
				return &ExitError{Code: 1, Err: fmt.Errorf("%d problem(s) found", n)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all descriptors valid")
			return nil
		},
	}
}

func (a *app) validateFiles(w io.Writer, files []string) (int, error) {
	reg, err := modplan.NewRegistry()
	if err != nil {
		return 0, err
	}

	problemCount := 0
	for _, file := range files {
		records, err := loader.LoadFile(file, a.loaderOptions()...)
		if err != nil {
			problemCount += report(w, err)
			continue
		}
		for _, rec := range records {
			if err := reg.Register(modplan.FromRecord(rec)); err != nil {
				problemCount += report(w, fmt.Errorf("%s: %w", file, err))
				continue
			}
			fmt.Fprintf(w, "ok    %s (%s)\n", rec.Name, file)
		}
	}
	return problemCount, nil
}

func (a *app) validateRegistries(cmd *cobra.Command) (int, error) {
	w := cmd.OutOrStdout()
	regs, loadErr := a.registries(cmd.Context())
	if regs == nil {
		return 0, loadErr
	}
	problemCount := report(w, loadErr)

	chain := make([]modplan.Registry, len(regs))
	var names []string
	for i, r := range regs {
		chain[i] = r
		for _, name := range r.Names() {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	resolver, err := modplan.NewResolver(modplan.NewChainRegistry(chain...), a.resolverOptions()...)
	if err != nil {
		return 0, err
	}

	for _, name := range names {
		plan, err := resolver.Resolve(name)
		if err != nil {
			problemCount += report(w, fmt.Errorf("resolve %s: %w", name, err))
			continue
		}
		fmt.Fprintf(w, "ok    %s (%d modules)\n", name, len(plan.Order))
	}
	return problemCount, nil
}

// report prints each problem in err on its own line and returns how many
// there were.
func report(w io.Writer, err error) int {
	list := problems(err)
	for _, p := range list {
		fmt.Fprintf(w, "FAIL  %v\n", p)
	}
	return len(list)
}

// problems splits joined errors into their parts. A ValidationErrors is kept
// whole so its problems stay grouped under their module.
func problems(err error) []error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*modplan.ValidationErrors); ok {
		return []error{err}
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, problems(e)...)
	}
	return out
}
