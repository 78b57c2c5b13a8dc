package modplan

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Resolver computes build plans from a Registry.
//
// Resolution is a depth-first walk from the root over public and then private
// dependencies, each in declaration order. Modules are appended to the plan in
// post-order, so every dependency precedes its dependents, and a module reached
// through several paths keeps the position of its first completion. Disabled
// dependencies never take part in the walk.
//
// A Resolver holds no per-call state and is safe for concurrent use as long as
// the registry is not being populated at the same time. Create one with
// NewResolver; a zero Resolver has no registry and every call fails with
// ErrNoRegistry.
type Resolver struct {
	registry Registry
	config   *resolverConfig
}

// NewResolver creates a resolver over reg.
func NewResolver(reg Registry, opts ...Option) (*Resolver, error) {
	if reg == nil {
		return nil, ErrNoRegistry
	}
	cfg, err := newResolverConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid resolver options: %w", err)
	}
	return &Resolver{registry: reg, config: cfg}, nil
}

// Resolve computes the build plan for root.
//
// It fails with *MissingModuleError when root or any reachable dependency has
// no registry entry and with *CyclicDependencyError when a reachable
// dependency leads back to a module still being resolved. Resolution is
// all-or-nothing: on error the plan is nil.
func (r *Resolver) Resolve(root string) (*BuildPlan, error) {
	if r.registry == nil {
		return nil, ErrNoRegistry
	}
	log := r.config.log().With("root", root)
	r.config.progress(ProgressEvent{Type: ProgressResolveStart, Root: root})

	plan, err := r.resolve(root, log)

	r.config.progress(ProgressEvent{Type: ProgressResolveEnd, Root: root, Err: err})
	if err != nil {
		log.Debug("resolution failed", "error", err)
		return nil, err
	}
	log.Debug("resolution complete",
		"modules", len(plan.Order),
		"public_edges", len(plan.PublicEdges),
		"private_edges", len(plan.PrivateEdges),
		"disabled", len(plan.Disabled))
	return plan, nil
}

func (r *Resolver) resolve(root string, log *slog.Logger) (*BuildPlan, error) {
	desc, ok := r.registry.Lookup(root)
	if !ok {
		return nil, &MissingModuleError{Name: root}
	}

	w := &walker{
		registry: r.registry,
		config:   r.config,
		log:      log,
		root:     root,
		state:    make(map[string]visitState),
		plan: &BuildPlan{
			Root:    root,
			Modules: make(map[string]ModuleDescriptor),
		},
	}
	if err := w.visit(root, desc, 0); err != nil {
		return nil, err
	}

	for _, name := range w.plan.Order {
		for _, dep := range w.plan.Modules[name].DisabledDependencies {
			_, available := r.registry.Lookup(dep)
			w.plan.Disabled = append(w.plan.Disabled, DisabledDependency{
				Module:    name,
				Name:      dep,
				Available: available,
			})
		}
	}
	return w.plan, nil
}

// ResolveAll resolves several roots concurrently against the same registry.
// At most WithConcurrency roots are resolved at once. The first failure
// cancels the remaining work and is returned wrapped with its root.
func (r *Resolver) ResolveAll(ctx context.Context, roots ...string) (map[string]*BuildPlan, error) {
	if r.registry == nil {
		return nil, ErrNoRegistry
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.concurrency())

	var mu sync.Mutex
	plans := make(map[string]*BuildPlan, len(roots))

	for _, root := range roots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plan, err := r.Resolve(root)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", root, err)
			}
			mu.Lock()
			plans[root] = plan
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

// walker carries the state of a single Resolve call.
type walker struct {
	registry Registry
	config   *resolverConfig
	log      *slog.Logger
	root     string

	state map[string]visitState
	stack []string
	plan  *BuildPlan
}

func (w *walker) visit(name string, desc ModuleDescriptor, depth int) error {
	w.state[name] = inProgress
	w.stack = append(w.stack, name)
	w.plan.Modules[name] = desc

	for _, dep := range desc.PublicDependencies {
		w.plan.PublicEdges = append(w.plan.PublicEdges, Edge{From: name, To: dep})
		if err := w.descend(name, dep, depth); err != nil {
			return err
		}
	}
	for _, dep := range desc.PrivateDependencies {
		w.plan.PrivateEdges = append(w.plan.PrivateEdges, Edge{From: name, To: dep})
		if err := w.descend(name, dep, depth); err != nil {
			return err
		}
	}

	w.stack = w.stack[:len(w.stack)-1]
	w.state[name] = done
	w.plan.Order = append(w.plan.Order, name)

	w.log.Debug("module resolved", "module", name, "depth", depth, "position", len(w.plan.Order)-1)
	w.config.progress(ProgressEvent{Type: ProgressModuleResolved, Root: w.root, Module: name, Depth: depth})
	return nil
}

func (w *walker) descend(from, to string, depth int) error {
	switch w.state[to] {
	case done:
		return nil
	case inProgress:
		start := slices.Index(w.stack, to)
		path := append(slices.Clone(w.stack[start:]), to)
		return &CyclicDependencyError{Path: path}
	case unvisited:
	}

	desc, ok := w.registry.Lookup(to)
	if !ok {
		return &MissingModuleError{Name: to, RequestedBy: from}
	}
	return w.visit(to, desc, depth+1)
}
