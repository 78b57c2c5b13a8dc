package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const separatorWidth = 60 // Width of separator lines in text output

// dotEscaper escapes text placed inside a quoted DOT label.
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// TreeNode is the JSON form of a module and its dependencies.
type TreeNode struct {
	Name             string     `json:"name"`
	Position         int        `json:"position"`
	LanguageStandard string     `json:"languageStandard,omitempty"`
	PCHMode          string     `json:"pchMode,omitempty"`
	Root             bool       `json:"root,omitempty"`
	Public           []TreeNode `json:"public,omitempty"`
	Private          []TreeNode `json:"private,omitempty"`
	Disabled         []string   `json:"disabled,omitempty"`
	Unexpanded       bool       `json:"unexpanded,omitempty"`
}

// ToJSON outputs the graph as a nested dependency tree rooted at the plan's
// root. A module already expanded elsewhere in the tree is emitted once more
// with Unexpanded set and no children.
func (g *Graph) ToJSON() ([]byte, error) {
	root := g.Modules[g.Root]
	if root == nil {
		return json.MarshalIndent(TreeNode{}, "", "  ")
	}
	visited := map[string]bool{g.Root: true}
	tree := g.treeNode(root, visited)
	return json.MarshalIndent(tree, "", "  ")
}

func (g *Graph) treeNode(node *Node, visited map[string]bool) TreeNode {
	tn := TreeNode{
		Name:             node.Name,
		Position:         node.Position,
		LanguageStandard: string(node.LanguageStandard),
		PCHMode:          string(node.PCHMode),
		Root:             node.IsRoot,
		Disabled:         node.Disabled,
	}
	tn.Public = g.children(node.Public, visited)
	tn.Private = g.children(node.Private, visited)
	return tn
}

func (g *Graph) children(names []string, visited map[string]bool) []TreeNode {
	out := make([]TreeNode, 0, len(names))
	for _, name := range names {
		child := g.Modules[name]
		if child == nil {
			continue
		}
		if visited[name] {
			out = append(out, TreeNode{Name: name, Position: child.Position, Unexpanded: true})
			continue
		}
		visited[name] = true
		out = append(out, g.treeNode(child, visited))
	}
	return out
}

// ToDOT outputs the graph in Graphviz DOT format. Nodes and edges are emitted
// in build order; private edges are dashed.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n\n")

	for _, name := range g.Order {
		node := g.Modules[name]
		attrs := fmt.Sprintf(`label="%s\n#%d"`, dotEscaper.Replace(name), node.Position)
		if node.IsRoot {
			attrs += ", style=bold"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", name, attrs)
	}

	buf.WriteString("\n")

	for _, name := range g.Order {
		node := g.Modules[name]
		for _, dep := range node.Public {
			fmt.Fprintf(&buf, "  %q -> %q;\n", name, dep)
		}
		for _, dep := range node.Private {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", name, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ToText outputs a human-readable text representation of the graph.
func (g *Graph) ToText() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Dependency Graph (root: %s)\n", g.Root)
	buf.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")

	stats := g.Stats()
	fmt.Fprintf(&buf, "Total modules: %d\n", stats.TotalModules)
	fmt.Fprintf(&buf, "Direct dependencies: %d\n", stats.DirectDependencies)
	fmt.Fprintf(&buf, "Transitive dependencies: %d\n", stats.TransitiveDependencies)
	fmt.Fprintf(&buf, "Max depth: %d\n", stats.MaxDepth)
	fmt.Fprintf(&buf, "Edges: %d public, %d private\n", stats.PublicEdges, stats.PrivateEdges)
	if stats.DisabledDependencies > 0 {
		fmt.Fprintf(&buf, "Disabled dependencies: %d\n", stats.DisabledDependencies)
	}
	buf.WriteString("\n")

	buf.WriteString("Build Order:\n")
	for i, name := range g.Order {
		fmt.Fprintf(&buf, "  %d. %s\n", i+1, name)
	}
	buf.WriteString("\n")

	if g.Contains(g.Root) {
		buf.WriteString("Dependency Tree:\n")
		g.printTree(&buf, g.Root, false, "", true, make(map[string]bool))
	}

	return buf.String()
}

func (g *Graph) printTree(buf *bytes.Buffer, name string, private bool, prefix string, isLast bool, seen map[string]bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	if name == g.Root {
		buf.WriteString(name)
	} else {
		buf.WriteString(prefix + connector + name)
	}
	if private {
		buf.WriteString(" (private)")
	}

	if seen[name] {
		buf.WriteString(" (*)\n")
		return
	}
	buf.WriteString("\n")
	seen[name] = true

	node := g.Modules[name]
	if node == nil {
		return
	}

	childPrefix := prefix
	if name != g.Root {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	total := len(node.Public) + len(node.Private)
	for i, dep := range node.Public {
		g.printTree(buf, dep, false, childPrefix, i == total-1, seen)
	}
	for i, dep := range node.Private {
		g.printTree(buf, dep, true, childPrefix, len(node.Public)+i == total-1, seen)
	}
}

// ToExplainText outputs a human-readable explanation for a specific module.
func (g *Graph) ToExplainText(name string) (string, error) {
	explanation, err := g.Explain(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Explanation for: %s\n", explanation.Module)
	buf.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")
	fmt.Fprintf(&buf, "Build position: %d of %d\n", explanation.Position+1, len(g.Order))

	if len(explanation.Dependents) > 0 {
		fmt.Fprintf(&buf, "Required by: %s\n", strings.Join(explanation.Dependents, ", "))
	}
	if len(explanation.VisibleTo) > 0 {
		fmt.Fprintf(&buf, "Visible to: %s\n", strings.Join(explanation.VisibleTo, ", "))
	}

	if len(explanation.DependencyChains) > 0 {
		buf.WriteString("\nDependency Chains (paths from root):\n")
		for i, chain := range explanation.DependencyChains {
			fmt.Fprintf(&buf, "  %d. %s\n", i+1, chain.String())
		}
	}

	return buf.String(), nil
}
