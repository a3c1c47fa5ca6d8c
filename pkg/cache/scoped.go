package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one cache backend without colliding.
//
// Example usage:
//
//	// Staging and production on the same Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// GraphKey generates a prefixed key for converted graphs.
func (k *ScopedKeyer) GraphKey(format, contentHash string) string {
	return k.prefix + k.inner.GraphKey(format, contentHash)
}

// ArtifactKey generates a prefixed key for export artifacts.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
