package cache

// ScopedKeyer prefixes every key of an inner Keyer, so boards from several
// installations can share one Redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns inner with prefix prepended to its keys. A nil
// inner uses the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ArtifactKey(stateHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(stateHash, opts)
}
