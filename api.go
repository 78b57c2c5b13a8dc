// Package modplan provides the dependency declaration, validation and
// resolution core of a module build system.
//
// A module is described by a ModuleDescriptor: its name, compiler settings
// and its public, private and disabled dependencies. Descriptors are validated
// as they enter a Registry, and a Resolver turns a root module plus a registry
// into a BuildPlan: a topological order in which every dependency precedes its
// dependents, with public and private edges kept apart for link-order
// decisions downstream.
//
// # Quick Start
//
//	reg, err := modplan.NewRegistry(
//	    modplan.ModuleDescriptor{Name: "Game", PublicDependencies: []string{"Engine"}},
//	    modplan.ModuleDescriptor{Name: "Engine", PublicDependencies: []string{"Core"}},
//	    modplan.ModuleDescriptor{Name: "Core"},
//	)
//	if err != nil {
//	    return err
//	}
//	resolver, _ := modplan.NewResolver(reg)
//	plan, err := resolver.Resolve("Game")
//	// plan.Order == []string{"Core", "Engine", "Game"}
//
// Descriptors can also be loaded from Starlark, YAML, TOML or HCL files:
//
//	reg, err := modplan.LoadDir(ctx, "Source")
//
// # Errors
//
// Validation failures match ErrConfig and resolution failures match
// ErrResolve under errors.Is. Use errors.As to reach the concrete variant
// (*CyclicDependencyError, *MissingModuleError, ...). A failed resolution
// never returns a partial plan.
//
// # Thread Safety
//
// Registries are safe for concurrent reads. A Resolver may serve many
// Resolve calls at once; ResolveAll does exactly that.
package modplan

import (
	"context"
	"errors"
	"fmt"
)

// ResolveDir loads every descriptor under dir and resolves root against them.
//
// Descriptors that fail to load do not abort the call by themselves; they
// are logged through WithLogger and, if resolution fails, joined into the
// returned error so the cause of a missing module is visible.
func ResolveDir(ctx context.Context, dir, root string, opts ...Option) (*BuildPlan, error) {
	cfg, err := newResolverConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid resolver options: %w", err)
	}

	reg, loadErr := LoadDir(ctx, dir, WithDirLogger(cfg.log()))
	if reg == nil {
		return nil, fmt.Errorf("load registry: %w", loadErr)
	}

	resolver := &Resolver{registry: reg, config: cfg}
	plan, err := resolver.Resolve(root)
	if err != nil {
		if loadErr != nil {
			return nil, errors.Join(err, fmt.Errorf("load registry: %w", loadErr))
		}
		return nil, err
	}
	return plan, nil
}
