package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants can
// share one backend without seeing each other's entries.
//
// Example usage:
//
//	// Per-client keys on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "client:abc123:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TableKey generates a prefixed key for decoded tables.
func (k *ScopedKeyer) TableKey(sourceHash string, opts TableKeyOpts) string {
	return k.prefix + k.inner.TableKey(sourceHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(tableHash, opts)
}
