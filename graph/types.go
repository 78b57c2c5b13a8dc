package graph

import (
	"strings"

	modplan "github.com/albertocavalcante/go-modplan"
)

// Graph is a resolved module dependency graph.
// It supports traversal in both directions (dependencies and dependents).
type Graph struct {
	// Root is the module the plan was resolved for.
	Root string

	// Order is the build order of the plan.
	Order []string

	// Modules contains all nodes in the graph, keyed by module name.
	Modules map[string]*Node

	plan *modplan.BuildPlan
}

// Node is a module in the dependency graph.
type Node struct {
	// Name identifies the module.
	Name string

	// Position is the module's index in the build order.
	Position int

	// Public are the module's public dependencies in declaration order.
	Public []string

	// Private are the module's private dependencies in declaration order.
	Private []string

	// Dependents are modules that directly depend on this one, in build order.
	Dependents []string

	// Disabled are the module's disabled dependencies.
	Disabled []string

	// LanguageStandard and PCHMode are passed through from the descriptor.
	LanguageStandard modplan.LanguageStandard
	PCHMode          modplan.PCHMode

	// IsRoot is true for the plan's root module.
	IsRoot bool
}

// Dependencies returns the direct dependencies, public before private.
func (n *Node) Dependencies() []string {
	deps := make([]string, 0, len(n.Public)+len(n.Private))
	deps = append(deps, n.Public...)
	return append(deps, n.Private...)
}

// Explanation describes why a module is part of a plan.
type Explanation struct {
	// Module is the module being explained.
	Module string

	// Position is the module's index in the build order.
	Position int

	// Dependents are the modules that directly require it.
	Dependents []string

	// DependencyChains are all paths from the root to the module.
	DependencyChains []DependencyChain

	// VisibleTo are the modules that can see this module's interface.
	VisibleTo []string
}

// DependencyChain is a path of dependencies from the root to a module.
type DependencyChain struct {
	Path []string
}

// String returns the chain as "A -> B -> C".
func (c DependencyChain) String() string {
	return strings.Join(c.Path, " -> ")
}

// Stats summarizes a graph.
type Stats struct {
	// TotalModules is the number of modules in the plan, root included.
	TotalModules int

	// DirectDependencies is the number of direct dependencies of the root.
	DirectDependencies int

	// TransitiveDependencies is the number of modules reached only indirectly.
	TransitiveDependencies int

	// MaxDepth is the length of the longest dependency chain from the root.
	MaxDepth int

	// PublicEdges and PrivateEdges count edges by visibility.
	PublicEdges  int
	PrivateEdges int

	// DisabledDependencies is the number of disabled dependency declarations.
	DisabledDependencies int
}
