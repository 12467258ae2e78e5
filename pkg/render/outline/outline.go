// Package outline renders part hierarchies as indented terminal trees.
//
// The output uses lipgloss tree enumerators:
//
//	Robot (R-1)
//	├── 2 × Arm
//	│   └── ↻ 1 × Robot
//	└── 4 × Screw
//
// A part that was already expanded elsewhere is printed once more with a
// "(see above)" marker instead of repeating its subtree. Parts flagged as
// closing a cycle get the ↻ marker and no children.
package outline

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/parttree/pkg/tree"
)

// Options configures outline rendering.
type Options struct {
	// Styled enables colors. Leave false for plain text output.
	Styled bool
	// Rounded uses rounded corners for the last child connector.
	Rounded bool
}

var (
	rootStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	qtyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	cycleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	enumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))
)

// Render returns the outline of root. A nil root renders as an empty string.
func Render(root *tree.Node, opts Options) string {
	if root == nil {
		return ""
	}
	r := renderer{opts: opts, expanded: make(map[tree.ID]bool)}
	t := r.subtree(root, r.style(rootStyle, label(root)))
	if opts.Rounded {
		t.Enumerator(ltree.RoundedEnumerator)
	}
	if opts.Styled {
		t.EnumeratorStyle(enumStyle)
	}
	return t.String()
}

type renderer struct {
	opts     Options
	expanded map[tree.ID]bool
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if !r.opts.Styled {
		return text
	}
	return s.Render(text)
}

func (r *renderer) subtree(n *tree.Node, title string) *ltree.Tree {
	t := ltree.Root(title)
	if !n.ID.IsZero() {
		r.expanded[n.ID] = true
	}
	for _, e := range n.Children {
		if e.Child == nil {
			continue
		}
		t.Child(r.child(e))
	}
	return t
}

func (r *renderer) child(e tree.Edge) any {
	c := e.Child
	title := label(c)
	if q, ok := tree.FormatQuantity(e.Quantity); ok {
		title = r.style(qtyStyle, q+" ×") + " " + title
	}

	switch {
	case c.Cycle:
		return r.style(cycleStyle, "↻ ") + title
	case c.ID.IsZero() || len(c.Children) == 0:
		return title
	case r.expanded[c.ID]:
		return title + r.style(qtyStyle, " (see above)")
	}

	sub := r.subtree(c, title)
	if r.opts.Rounded {
		sub.Enumerator(ltree.RoundedEnumerator)
	}
	if r.opts.Styled {
		sub.EnumeratorStyle(enumStyle)
	}
	return sub
}

func label(n *tree.Node) string {
	if n.Code != "" {
		return fmt.Sprintf("%s (%s)", n.DisplayName(), n.Code)
	}
	return n.DisplayName()
}
