package mermaid

import (
	"fmt"
	"strings"

	"github.com/matzehuels/parttree/pkg/tree"
)

// Directions accepted by [Options.Direction].
const (
	TopDown   = "TD"
	TopBottom = "TB"
	BottomUp  = "BT"
	LeftRight = "LR"
	RightLeft = "RL"
)

// DefaultIDPrefix is prepended to part ids to form diagram identifiers.
const DefaultIDPrefix = "P"

// Options configures a [Builder].
type Options struct {
	// Direction is the flowchart orientation. Empty or unknown values fall
	// back to TopDown.
	Direction string
	// IDPrefix is prepended to every part id. Defaults to DefaultIDPrefix.
	IDPrefix string
}

// Builder converts hierarchies to Mermaid text. A Builder holds no state
// between calls and is safe for concurrent use.
type Builder struct {
	direction string
	prefix    string
}

// New creates a Builder.
func New(opts Options) *Builder {
	b := &Builder{direction: TopDown, prefix: DefaultIDPrefix}
	if ValidDirection(opts.Direction) {
		b.direction = strings.ToUpper(opts.Direction)
	}
	if opts.IDPrefix != "" {
		b.prefix = opts.IDPrefix
	}
	return b
}

// ValidDirection reports whether d names a flowchart orientation.
func ValidDirection(d string) bool {
	switch strings.ToUpper(d) {
	case TopDown, TopBottom, BottomUp, LeftRight, RightLeft:
		return true
	}
	return false
}

// Build returns the diagram definition for root, lines joined by "\n"
// without a trailing newline. A nil root or a root without an id yields
// just the header.
func (b *Builder) Build(root *tree.Node) string {
	lines := []string{"graph " + b.direction}

	tree.Walk(root, tree.VisitorFuncs{
		Node: func(n *tree.Node) {
			lines = append(lines, fmt.Sprintf(`%s["%s"]`, b.nodeID(n.ID), nodeLabel(n)))
		},
		Edge: func(from *tree.Node, e tree.Edge) {
			lines = append(lines, b.edgeLine(from, e))
		},
	})

	return strings.Join(lines, "\n")
}

func (b *Builder) edgeLine(from *tree.Node, e tree.Edge) string {
	arrow := "-->"
	if e.Child.Cycle {
		arrow = "-.->"
	}
	if q, ok := tree.FormatQuantity(e.Quantity); ok {
		return fmt.Sprintf("%s %s|%s| %s", b.nodeID(from.ID), arrow, q, b.nodeID(e.Child.ID))
	}
	return fmt.Sprintf("%s %s %s", b.nodeID(from.ID), arrow, b.nodeID(e.Child.ID))
}

// nodeID derives the diagram identifier for id. Letters and digits are kept;
// every other byte is hex-encoded behind an underscore so that distinct ids
// never collide.
func (b *Builder) nodeID(id tree.ID) string {
	var sb strings.Builder
	sb.WriteString(b.prefix)
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "_%02x", c)
	}
	return sb.String()
}
