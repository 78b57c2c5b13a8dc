package modplan

import (
	"sort"
)

// ModuleMove describes a module whose position in the build order changed.
type ModuleMove struct {
	// Name is the module name.
	Name string `json:"name"`

	// OldPosition is the index in the old plan's order.
	OldPosition int `json:"old_position"`

	// NewPosition is the index in the new plan's order.
	NewPosition int `json:"new_position"`
}

// EdgeChange describes an added or removed dependency edge.
type EdgeChange struct {
	Edge
	Visibility Visibility `json:"visibility"`
}

// PlanDiff describes the differences between two build plans.
//
// Typical uses are reviewing the effect of a descriptor change before
// building, and invalidating cached plans:
//
//	stored, _ := planfile.ReadFile("Game.plan.json")
//	current, _ := resolver.Resolve("Game")
//	if diff := modplan.DiffPlans(stored.Plan, current); !diff.IsEmpty() {
//	    fmt.Printf("%d changes\n", diff.TotalChanges())
//	}
type PlanDiff struct {
	// Added contains modules present in new but not in old.
	Added []string `json:"added,omitempty"`

	// Removed contains modules present in old but not in new.
	Removed []string `json:"removed,omitempty"`

	// Moved contains modules present in both whose build position changed.
	Moved []ModuleMove `json:"moved,omitempty"`

	// AddedEdges contains edges present in new but not in old.
	AddedEdges []EdgeChange `json:"added_edges,omitempty"`

	// RemovedEdges contains edges present in old but not in new.
	RemovedEdges []EdgeChange `json:"removed_edges,omitempty"`
}

// IsEmpty returns true if there are no differences between the plans.
func (d *PlanDiff) IsEmpty() bool {
	return d.TotalChanges() == 0
}

// TotalChanges returns the total number of module and edge changes.
func (d *PlanDiff) TotalChanges() int {
	return len(d.Added) + len(d.Removed) + len(d.Moved) + len(d.AddedEdges) + len(d.RemovedEdges)
}

// DiffPlans computes the difference between two build plans.
// A nil plan is treated as empty. Results are sorted by module name, and
// edges by (from, to), for stable output.
func DiffPlans(old, new *BuildPlan) *PlanDiff {
	diff := &PlanDiff{}

	oldPos := positions(old)
	newPos := positions(new)

	for name, np := range newPos {
		op, existed := oldPos[name]
		switch {
		case !existed:
			diff.Added = append(diff.Added, name)
		case op != np:
			diff.Moved = append(diff.Moved, ModuleMove{Name: name, OldPosition: op, NewPosition: np})
		}
	}
	for name := range oldPos {
		if _, exists := newPos[name]; !exists {
			diff.Removed = append(diff.Removed, name)
		}
	}

	oldEdges := edgeSet(old)
	newEdges := edgeSet(new)
	for e := range newEdges {
		if !oldEdges[e] {
			diff.AddedEdges = append(diff.AddedEdges, e)
		}
	}
	for e := range oldEdges {
		if !newEdges[e] {
			diff.RemovedEdges = append(diff.RemovedEdges, e)
		}
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Slice(diff.Moved, func(i, j int) bool {
		return diff.Moved[i].Name < diff.Moved[j].Name
	})
	sortEdgeChanges(diff.AddedEdges)
	sortEdgeChanges(diff.RemovedEdges)

	return diff
}

func positions(p *BuildPlan) map[string]int {
	pos := make(map[string]int)
	if p == nil {
		return pos
	}
	for i, name := range p.Order {
		pos[name] = i
	}
	return pos
}

func edgeSet(p *BuildPlan) map[EdgeChange]bool {
	set := make(map[EdgeChange]bool)
	if p == nil {
		return set
	}
	for _, e := range p.PublicEdges {
		set[EdgeChange{Edge: e, Visibility: VisibilityPublic}] = true
	}
	for _, e := range p.PrivateEdges {
		set[EdgeChange{Edge: e, Visibility: VisibilityPrivate}] = true
	}
	return set
}

// sortEdgeChanges sorts edge changes by from, to, then visibility.
func sortEdgeChanges(changes []EdgeChange) {
	sort.Slice(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Visibility < b.Visibility
	})
}
