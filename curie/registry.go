package curie

import (
	"maps"
	"slices"
)

// Registry is a bidirectional prefix <-> base IRI mapping.
//
// A base IRI is registered under at most one prefix. Build the registry once,
// next to the triple store it describes; after construction it is read-only and
// safe for concurrent lookups.
type Registry struct {
	prefixToBase map[string]string
	baseToPrefix map[string]string
}

// NewRegistry builds a registry from a prefix table.
// Prefixes are registered in sorted order, so when two prefixes share a base IRI
// the lexically greater prefix owns it.
func NewRegistry(prefixes map[string]string) *Registry {
	r := &Registry{
		prefixToBase: make(map[string]string, len(prefixes)),
		baseToPrefix: make(map[string]string, len(prefixes)),
	}
	for _, prefix := range slices.Sorted(maps.Keys(prefixes)) {
		r.Register(prefix, prefixes[prefix])
	}
	return r
}

// Register maps prefix to base, replacing any earlier mapping of either side.
func (r *Registry) Register(prefix, base string) {
	if oldBase, ok := r.prefixToBase[prefix]; ok {
		delete(r.baseToPrefix, oldBase)
	}
	if oldPrefix, ok := r.baseToPrefix[base]; ok && oldPrefix != prefix {
		delete(r.prefixToBase, oldPrefix)
	}
	r.prefixToBase[prefix] = base
	r.baseToPrefix[base] = prefix
}

// ResolvePrefix returns the base IRI registered for prefix.
func (r *Registry) ResolvePrefix(prefix string) (string, bool) {
	base, ok := r.prefixToBase[prefix]
	return base, ok
}

// ResolveBase returns the prefix registered for base.
func (r *Registry) ResolveBase(base string) (string, bool) {
	prefix, ok := r.baseToPrefix[base]
	return prefix, ok
}

// Prefixes returns a copy of the prefix table.
func (r *Registry) Prefixes() map[string]string {
	return maps.Clone(r.prefixToBase)
}

// Len returns the number of registered prefixes.
func (r *Registry) Len() int {
	return len(r.prefixToBase)
}
