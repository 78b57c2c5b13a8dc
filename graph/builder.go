package graph

import (
	modplan "github.com/albertocavalcante/go-modplan"
)

// FromPlan constructs a Graph from a build plan. A nil plan yields an empty graph.
func FromPlan(plan *modplan.BuildPlan) *Graph {
	g := &Graph{Modules: make(map[string]*Node)}
	if plan == nil {
		return g
	}
	g.Root = plan.Root
	g.plan = plan
	g.Order = append([]string(nil), plan.Order...)

	// First pass: create all nodes
	for i, name := range plan.Order {
		desc := plan.Modules[name]
		g.Modules[name] = &Node{
			Name:             name,
			Position:         i,
			Disabled:         append([]string(nil), desc.DisabledDependencies...),
			LanguageStandard: desc.LanguageStandard,
			PCHMode:          desc.PCHMode,
			IsRoot:           name == plan.Root,
		}
	}

	// Second pass: forward edges
	for _, e := range plan.PublicEdges {
		if node := g.Modules[e.From]; node != nil {
			node.Public = append(node.Public, e.To)
		}
	}
	for _, e := range plan.PrivateEdges {
		if node := g.Modules[e.From]; node != nil {
			node.Private = append(node.Private, e.To)
		}
	}

	// Third pass: reverse edges, walking in build order so Dependents are too
	for _, name := range g.Order {
		for _, dep := range g.Modules[name].Dependencies() {
			if depNode := g.Modules[dep]; depNode != nil {
				depNode.Dependents = append(depNode.Dependents, name)
			}
		}
	}

	return g
}
