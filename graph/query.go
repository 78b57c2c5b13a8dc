package graph

import (
	"fmt"
	"slices"
)

// Get returns the node for a module, or nil if not found.
func (g *Graph) Get(name string) *Node {
	return g.Modules[name]
}

// Contains returns true if the graph contains the given module.
func (g *Graph) Contains(name string) bool {
	_, ok := g.Modules[name]
	return ok
}

// DirectDeps returns the direct dependencies of a module, public before private.
func (g *Graph) DirectDeps(name string) []string {
	if node := g.Modules[name]; node != nil {
		return node.Dependencies()
	}
	return nil
}

// DirectDependents returns modules that directly depend on the given module.
func (g *Graph) DirectDependents(name string) []string {
	if node := g.Modules[name]; node != nil {
		return node.Dependents
	}
	return nil
}

// TransitiveDeps returns all transitive dependencies of a module.
// The result is in breadth-first order.
func (g *Graph) TransitiveDeps(name string) []string {
	return g.bfs(name, (*Node).Dependencies)
}

// TransitiveDependents returns all modules that transitively depend on the
// given module, closest first. These are the modules a change to it affects.
func (g *Graph) TransitiveDependents(name string) []string {
	return g.bfs(name, func(n *Node) []string { return n.Dependents })
}

func (g *Graph) bfs(start string, next func(*Node) []string) []string {
	result := make([]string, 0)
	visited := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Modules[current]
		if node == nil {
			continue
		}
		for _, n := range next(node) {
			if !visited[n] {
				visited[n] = true
				result = append(result, n)
				queue = append(queue, n)
			}
		}
	}
	return result
}

// Path finds the shortest dependency path from one module to another.
// Returns nil if no path exists.
func (g *Graph) Path(from, to string) []string {
	if !g.Contains(from) || !g.Contains(to) {
		return nil
	}
	if from == to {
		return []string{from}
	}

	type queueItem struct {
		name string
		path []string
	}

	visited := map[string]bool{from: true}
	queue := []queueItem{{name: from, path: []string{from}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dep := range g.Modules[current.name].Dependencies() {
			if visited[dep] || g.Modules[dep] == nil {
				continue
			}
			path := append(slices.Clone(current.path), dep)
			if dep == to {
				return path
			}
			visited[dep] = true
			queue = append(queue, queueItem{name: dep, path: path})
		}
	}
	return nil
}

// AllPaths finds all dependency paths from one module to another.
// This can be expensive for large graphs with many paths.
func (g *Graph) AllPaths(from, to string) [][]string {
	var result [][]string
	if !g.Contains(from) || !g.Contains(to) {
		return result
	}
	g.findAllPaths(from, to, []string{from}, &result)
	return result
}

// findAllPaths needs no visited set: a resolved plan is acyclic.
func (g *Graph) findAllPaths(current, target string, path []string, result *[][]string) {
	if current == target {
		*result = append(*result, slices.Clone(path))
		return
	}
	node := g.Modules[current]
	if node == nil {
		return
	}
	for _, dep := range node.Dependencies() {
		g.findAllPaths(dep, target, append(path, dep), result)
	}
}

// WhyIncluded returns all dependency chains from the root to a module.
func (g *Graph) WhyIncluded(name string) ([]DependencyChain, error) {
	if !g.Contains(name) {
		return nil, fmt.Errorf("module %q not found in graph", name)
	}

	paths := g.AllPaths(g.Root, name)
	chains := make([]DependencyChain, len(paths))
	for i, path := range paths {
		chains[i] = DependencyChain{Path: path}
	}
	return chains, nil
}

// Explain describes why a module is part of the plan and who can see it.
func (g *Graph) Explain(name string) (*Explanation, error) {
	chains, err := g.WhyIncluded(name)
	if err != nil {
		return nil, err
	}
	node := g.Modules[name]

	explanation := &Explanation{
		Module:           name,
		Position:         node.Position,
		Dependents:       node.Dependents,
		DependencyChains: chains,
	}
	if g.plan != nil {
		for _, m := range g.Order {
			if slices.Contains(g.plan.VisibleTo(m), name) {
				explanation.VisibleTo = append(explanation.VisibleTo, m)
			}
		}
	}
	return explanation, nil
}

// Leaves returns the modules with no dependencies, in build order.
func (g *Graph) Leaves() []string {
	var leaves []string
	for _, name := range g.Order {
		if len(g.Modules[name].Dependencies()) == 0 {
			leaves = append(leaves, name)
		}
	}
	return leaves
}

// Stats returns statistics about the graph.
func (g *Graph) Stats() Stats {
	stats := Stats{TotalModules: len(g.Modules)}

	if root := g.Modules[g.Root]; root != nil {
		stats.DirectDependencies = len(root.Dependencies())
	}
	stats.TransitiveDependencies = max(stats.TotalModules-stats.DirectDependencies-1, 0)

	for _, node := range g.Modules {
		stats.PublicEdges += len(node.Public)
		stats.PrivateEdges += len(node.Private)
		stats.DisabledDependencies += len(node.Disabled)
	}

	stats.MaxDepth = g.calculateMaxDepth()
	return stats
}

// calculateMaxDepth walks the build order backwards from the root. Since every
// dependency precedes its dependents, a single pass over Order in reverse
// settles each node's depth before its dependencies are visited.
func (g *Graph) calculateMaxDepth() int {
	if g.Modules[g.Root] == nil {
		return 0
	}
	depths := map[string]int{g.Root: 0}
	maxDepth := 0
	for i := len(g.Order) - 1; i >= 0; i-- {
		name := g.Order[i]
		depth, reached := depths[name]
		if !reached {
			continue
		}
		maxDepth = max(maxDepth, depth)
		for _, dep := range g.Modules[name].Dependencies() {
			if d, ok := depths[dep]; !ok || d < depth+1 {
				depths[dep] = depth + 1
			}
		}
	}
	return maxDepth
}
