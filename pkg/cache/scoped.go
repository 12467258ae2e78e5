package cache

import "github.com/matzehuels/parttree/pkg/tree"

// ScopedKeyer wraps a Keyer with a prefix for credential isolation.
// Two users of the same host may see different hierarchies for the same
// part, so their cached responses must not mix.
//
// Example usage:
//
//	// Keys for one API token
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "token:"+Hash([]byte(token))[:12]+":")
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

// TreeKey generates a prefixed key for hierarchy caching.
func (k *ScopedKeyer) TreeKey(host string, part tree.ID, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(host, part, opts)
}

// DiagramKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) DiagramKey(treeHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(treeHash, opts)
}
