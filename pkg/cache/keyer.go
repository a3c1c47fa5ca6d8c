package cache

// Keyer derives cache keys.
type Keyer interface {
	// GraphKey identifies the graph converted from content with the given
	// source format.
	GraphKey(format, contentHash string) string
	// ArtifactKey identifies an export of a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the export settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Direction string `json:"direction,omitempty"`
	Detailed  bool   `json:"detailed,omitempty"`
}

// DefaultKeyer produces keys of the form "graph:<hash>" and "artifact:<hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(format, contentHash string) string {
	return hashKey("graph", format, contentHash)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
