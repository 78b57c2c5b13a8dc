// Package graph provides a query view over a resolved build plan.
//
// A plan is a flat topological order plus edge lists. The Graph built from it
// answers the questions that come up when reviewing a plan:
//
//   - Which modules does X depend on, directly or transitively?
//   - Which modules would be rebuilt if X changed?
//   - Why is X part of the build at all?
//
// # Building a Graph
//
//	plan, _ := resolver.Resolve("Game")
//	g := graph.FromPlan(plan)
//
// # Querying the Graph
//
//	deps := g.TransitiveDeps("Engine")
//	chains, _ := g.WhyIncluded("Json")
//	path := g.Path("Game", "Core")
//
// # Output Formats
//
//	jsonBytes, _ := g.ToJSON() // nested dependency tree
//	dot := g.ToDOT()           // Graphviz; private edges are dashed
//	text := g.ToText()         // human-readable tree
package graph
