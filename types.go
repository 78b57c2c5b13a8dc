package modplan

import (
	"slices"
	"strings"
)

// LanguageStandard is the language-standard level a module compiles with.
// It is informational for resolution and passed through to the orchestrator.
type LanguageStandard string

const (
	// StandardDefault lets the toolchain pick its default standard.
	StandardDefault LanguageStandard = "default"
	// StandardCpp14 compiles against C++14.
	StandardCpp14 LanguageStandard = "cpp14"
	// StandardCpp17 compiles against C++17.
	StandardCpp17 LanguageStandard = "cpp17"
	// StandardCpp20 compiles against C++20.
	StandardCpp20 LanguageStandard = "cpp20"
	// StandardLatest compiles against the newest standard the toolchain supports.
	StandardLatest LanguageStandard = "latest"
)

// LanguageStandards lists every recognized LanguageStandard in canonical form.
var LanguageStandards = []LanguageStandard{
	StandardDefault,
	StandardCpp14,
	StandardCpp17,
	StandardCpp20,
	StandardLatest,
}

// ParseLanguageStandard maps a raw value to its canonical LanguageStandard.
// Matching is case-insensitive and accepts the "CppStandardVersion." prefix.
// An empty value means unset and maps to StandardDefault.
func ParseLanguageStandard(s string) (LanguageStandard, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimPrefix(key, "cppstandardversion.")
	if key == "" {
		return StandardDefault, true
	}
	for _, std := range LanguageStandards {
		if key == string(std) {
			return std, true
		}
	}
	return "", false
}

// PCHMode is the precompiled-header policy of a module.
// It affects build orchestration only, never resolution.
type PCHMode string

const (
	// PCHDisabled turns precompiled headers off.
	PCHDisabled PCHMode = "disabled"
	// PCHExplicit uses only the module's own precompiled header.
	PCHExplicit PCHMode = "explicit"
	// PCHShared uses precompiled headers shared across modules.
	PCHShared PCHMode = "shared"
	// PCHExplicitOrShared prefers the module's own header and falls back to a shared one.
	PCHExplicitOrShared PCHMode = "explicitOrShared"
)

// PCHModes lists every recognized PCHMode in canonical form.
var PCHModes = []PCHMode{
	PCHDisabled,
	PCHExplicit,
	PCHShared,
	PCHExplicitOrShared,
}

// pchAliases maps lower-cased toolchain spellings to canonical modes.
var pchAliases = map[string]PCHMode{
	"disabled":                PCHDisabled,
	"nopchs":                  PCHDisabled,
	"explicit":                PCHExplicit,
	"nosharedpchs":            PCHExplicit,
	"shared":                  PCHShared,
	"usesharedpchs":           PCHShared,
	"explicitorshared":        PCHExplicitOrShared,
	"useexplicitorsharedpchs": PCHExplicitOrShared,
	"default":                 PCHExplicitOrShared,
}

// ParsePCHMode maps a raw value to its canonical PCHMode.
// Matching is case-insensitive and accepts the "PCHUsageMode." prefix.
// An empty value means unset and maps to PCHExplicitOrShared.
func ParsePCHMode(s string) (PCHMode, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimPrefix(key, "pchusagemode.")
	if key == "" {
		return PCHExplicitOrShared, true
	}
	mode, ok := pchAliases[key]
	return mode, ok
}

// ModuleDescriptor describes one buildable unit: its identity, compiler
// settings and declared dependencies.
//
// Descriptors are values. Once validated and registered they are treated as
// immutable for the lifetime of a resolution run.
type ModuleDescriptor struct {
	// Name uniquely identifies the module within a registry.
	Name string `json:"name"`

	// LanguageStandard is the language-standard level.
	LanguageStandard LanguageStandard `json:"language_standard"`

	// PCHMode is the precompiled-header policy.
	PCHMode PCHMode `json:"pch_mode"`

	// PublicDependencies are re-exposed to consumers of this module.
	// Declaration order is meaningful for include and link order.
	PublicDependencies []string `json:"public_dependencies,omitempty"`

	// PrivateDependencies are visible only to this module's own compilation.
	PrivateDependencies []string `json:"private_dependencies,omitempty"`

	// DisabledDependencies are declared but switched off. They never take
	// part in resolution and are reported as "available but unused".
	DisabledDependencies []string `json:"disabled_dependencies,omitempty"`
}

// Clone returns a deep copy of the descriptor.
func (d ModuleDescriptor) Clone() ModuleDescriptor {
	d.PublicDependencies = slices.Clone(d.PublicDependencies)
	d.PrivateDependencies = slices.Clone(d.PrivateDependencies)
	d.DisabledDependencies = slices.Clone(d.DisabledDependencies)
	return d
}

// Dependencies returns the active dependencies in traversal order:
// public first, then private, each in declaration order.
func (d ModuleDescriptor) Dependencies() []string {
	deps := make([]string, 0, len(d.PublicDependencies)+len(d.PrivateDependencies))
	deps = append(deps, d.PublicDependencies...)
	return append(deps, d.PrivateDependencies...)
}

// Visibility says whether an edge is re-exposed to dependents.
type Visibility string

const (
	// VisibilityPublic marks an edge declared in PublicDependencies.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate marks an edge declared in PrivateDependencies.
	VisibilityPrivate Visibility = "private"
)

// Edge is a dependency edge in a build plan: From depends on To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DisabledDependency reports a dependency that is declared but switched off.
type DisabledDependency struct {
	// Module is the module that declares the disabled dependency.
	Module string `json:"module"`

	// Name is the disabled dependency.
	Name string `json:"name"`

	// Available is true if the registry could have satisfied the dependency.
	Available bool `json:"available"`
}

// BuildPlan is the resolver output: a topological build order plus the
// edge annotations the orchestrator needs to decide link order.
type BuildPlan struct {
	// Root is the module the plan was resolved for.
	Root string `json:"root"`

	// Order lists every reachable module; each dependency precedes its dependents.
	Order []string `json:"order"`

	// PublicEdges are public dependency edges in traversal order.
	PublicEdges []Edge `json:"public_edges,omitempty"`

	// PrivateEdges are private dependency edges in traversal order.
	PrivateEdges []Edge `json:"private_edges,omitempty"`

	// Modules holds the resolved descriptor of every module in Order.
	Modules map[string]ModuleDescriptor `json:"modules,omitempty"`

	// Disabled reports disabled dependencies of the resolved modules.
	Disabled []DisabledDependency `json:"disabled,omitempty"`
}

// Contains reports whether name is part of the plan.
func (p *BuildPlan) Contains(name string) bool {
	return p.Position(name) >= 0
}

// Position returns the index of name in Order, or -1.
func (p *BuildPlan) Position(name string) int {
	if p == nil {
		return -1
	}
	return slices.Index(p.Order, name)
}

// DependenciesOf returns the direct dependencies of name with the given
// visibility, in declaration order.
func (p *BuildPlan) DependenciesOf(name string, vis Visibility) []string {
	edges := p.PublicEdges
	if vis == VisibilityPrivate {
		edges = p.PrivateEdges
	}
	var deps []string
	for _, e := range edges {
		if e.From == name {
			deps = append(deps, e.To)
		}
	}
	return deps
}

// VisibleTo returns the modules whose interface name can see, in plan order:
// its direct public and private dependencies, plus everything those expose
// through public dependencies, transitively.
func (p *BuildPlan) VisibleTo(name string) []string {
	if !p.Contains(name) {
		return nil
	}

	publicOf := make(map[string][]string)
	for _, e := range p.PublicEdges {
		publicOf[e.From] = append(publicOf[e.From], e.To)
	}

	seen := make(map[string]bool)
	queue := append(p.DependenciesOf(name, VisibilityPublic), p.DependenciesOf(name, VisibilityPrivate)...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if seen[current] {
			continue
		}
		seen[current] = true
		queue = append(queue, publicOf[current]...)
	}

	visible := make([]string, 0, len(seen))
	for _, m := range p.Order {
		if seen[m] {
			visible = append(visible, m)
		}
	}
	return visible
}
