package cache

import "github.com/matzehuels/parttree/pkg/tree"

// Keyer builds cache keys.
type Keyer interface {
	// TreeKey identifies a hierarchy fetched from a host.
	TreeKey(host string, part tree.ID, opts TreeKeyOpts) string
	// DiagramKey identifies a rendered artifact of a hierarchy.
	DiagramKey(treeHash string, opts DiagramKeyOpts) string
}

// TreeKeyOpts are the fetch parameters that change a host response.
type TreeKeyOpts struct {
	MaxDepth    int  `json:"max_depth"`
	Substitutes bool `json:"substitutes"`
}

// DiagramKeyOpts are the render parameters that change an artifact.
type DiagramKeyOpts struct {
	Format    string `json:"format"`
	Direction string `json:"direction,omitempty"`
	Detailed  bool   `json:"detailed,omitempty"`
}

// DefaultKeyer produces hashed keys with a readable prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey returns "tree:<hash>".
func (DefaultKeyer) TreeKey(host string, part tree.ID, opts TreeKeyOpts) string {
	return hashKey("tree", host, part, opts)
}

// DiagramKey returns "diagram:<format>:<hash>".
func (DefaultKeyer) DiagramKey(treeHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram:"+opts.Format, treeHash, opts)
}
