package cache

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Scale       float64 `json:"scale,omitempty"`
	Resolution  int     `json:"resolution,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
	ShowSites   bool    `json:"show_sites,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key for one rendering of a state.
	ArtifactKey(stateHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes its inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(stateHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", stateHash, opts)
}
