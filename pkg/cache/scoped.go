package cache

import "os"

// EnvKeyPrefix scopes every cache key when set, letting several
// deployments share one Redis instance.
const EnvKeyPrefix = "BRICKWALL_CACHE_SCOPE"

// KeyerFromEnv returns a ScopedKeyer when BRICKWALL_CACHE_SCOPE is set and
// the default keyer otherwise.
func KeyerFromEnv() Keyer {
	if scope := os.Getenv(EnvKeyPrefix); scope != "" {
		return NewScopedKeyer(NewDefaultKeyer(), scope+":")
	}
	return NewDefaultKeyer()
}

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or
// tenants can share one backend without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "brickwall:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(contentHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(contentHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
