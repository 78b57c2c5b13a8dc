package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config keys. Each is also a persistent flag and a MODPLAN_ environment
// variable (dashes become underscores).
const (
	keyRegistry          = "registry"
	keyLogLevel          = "log-level"
	keyConcurrency       = "concurrency"
	keyCommentedDisabled = "commented-disabled"
)

// app holds the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "modplan",
		Short: "Validate module descriptors and compute build plans",
		Long: `modplan reads module descriptors (Starlark, YAML, TOML or HCL) from one or
more registry directories, validates them and resolves build plans: a
topological order in which every module follows its dependencies, with
public and private edges kept apart.

Examples:
  modplan validate                      Check every descriptor under .
  modplan resolve Game                  Print the build plan for Game
  modplan resolve Game --out plan.json  Write the plan to a file
  modplan graph Game --format dot       Emit the dependency graph for Graphviz
  modplan why Game Core                 Show how Game reaches Core
  modplan diff old.json new.json        Compare two stored plans`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./.modplan.yaml)")
	flags.StringSliceP(keyRegistry, "r", []string{"."}, "registry directory; repeat to chain, earlier wins")
	flags.String(keyLogLevel, "warn", "log level (debug, info, warn, error)")
	flags.Int(keyConcurrency, 0, "maximum parallel resolutions (0 uses the default)")
	flags.Bool(keyCommentedDisabled, false, "treat commented-out Starlark dependency entries as disabled")

	if err := a.v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}

	rootCmd.AddCommand(
		newValidateCmd(a),
		newResolveCmd(a),
		newGraphCmd(a),
		newWhyCmd(a),
		newDiffCmd(a),
	)
	return rootCmd
}
