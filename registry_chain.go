package modplan

// ChainRegistry layers several registries. Lookups try each registry in
// order and the first one that knows a module provides it.
//
// A typical chain puts a project's own descriptors in front of a shared
// engine registry so the project can shadow engine modules:
//
//	reg := modplan.NewChainRegistry(projectRegistry, engineRegistry)
type ChainRegistry struct {
	registries []Registry
}

// NewChainRegistry creates a chain over the given registries. Nil entries are skipped.
func NewChainRegistry(registries ...Registry) *ChainRegistry {
	chain := &ChainRegistry{registries: make([]Registry, 0, len(registries))}
	for _, r := range registries {
		if r != nil {
			chain.registries = append(chain.registries, r)
		}
	}
	return chain
}

// Lookup returns the descriptor from the first registry that has name.
func (c *ChainRegistry) Lookup(name string) (ModuleDescriptor, bool) {
	for _, r := range c.registries {
		if d, ok := r.Lookup(name); ok {
			return d, true
		}
	}
	return ModuleDescriptor{}, false
}

// Len returns the number of registries in the chain.
func (c *ChainRegistry) Len() int {
	return len(c.registries)
}
