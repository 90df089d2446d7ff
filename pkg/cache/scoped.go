package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Useful when several sync groups or tenants share one backend and
// their layouts must not collide.
//
// Example usage:
//
//	// Keys scoped to one dashboard
//	dashKeyer := NewScopedKeyer(NewDefaultKeyer(), "dash:sales:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SpecKey generates a prefixed key for a stored chart spec.
func (k *ScopedKeyer) SpecKey(chartID string, opts SpecKeyOpts) string {
	return k.prefix + k.inner.SpecKey(chartID, opts)
}

// LayoutKey generates a prefixed key for a computed layout.
func (k *ScopedKeyer) LayoutKey(specHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(specHash, opts)
}

// ExportKey generates a prefixed key for a serialized export.
func (k *ScopedKeyer) ExportKey(layoutHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(layoutHash, opts)
}
