package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/go-modplan/graph"
)

func newGraphCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph <root>",
		Short: "Print the dependency graph of a root module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.buildGraph(cmd, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch format {
			case "text":
				fmt.Fprint(w, g.ToText())
			case "dot":
				fmt.Fprint(w, g.ToDOT())
			case "json":
				data, err := g.ToJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
			default:
				return fmt.Errorf("unknown format %q (want text, dot or json)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, dot, json)")
	return cmd
}

func newWhyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "why <root> <module>",
		Short: "Explain why a module is part of a root's build plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.buildGraph(cmd, args[0])
			if err != nil {
				return err
			}
			text, err := g.ToExplainText(args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func (a *app) buildGraph(cmd *cobra.Command, root string) (*graph.Graph, error) {
	resolver, err := a.resolver(cmd.Context())
	if err != nil {
		return nil, err
	}
	plan, err := resolver.Resolve(root)
	if err != nil {
		return nil, err
	}
	return graph.FromPlan(plan), nil
}
