package cache

// ScopedKeyer wraps a Keyer with a namespace prefix.
//
//	redisKeyer := NewScopedKeyer(NewDefaultKeyer(), "gridnet:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the inner key with the prefix prepended.
func (k *ScopedKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sourceHash, opts)
}
