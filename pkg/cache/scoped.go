package cache

// ScopedKeyer wraps a Keyer with a prefix, so several projects can share
// one cache without their keys colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "mysteria:")
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

// FigureKey generates a prefixed key for figure artifacts.
func (k *ScopedKeyer) FigureKey(attrsHash string, opts FigureKeyOpts) string {
	return k.prefix + k.inner.FigureKey(attrsHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
