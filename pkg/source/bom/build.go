package bom

import (
	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/tree"
)

// Options controls how [Document.Tree] nests BOM lines.
type Options struct {
	// MaxDepth limits BOM levels below the root. It is clamped to
	// [0, tree.MaxDepthLimit].
	MaxDepth int
	// IncludeSubstitutes lists substitute parts on each line's child.
	IncludeSubstitutes bool
	// ExpandAll expands children of every part, not only assemblies.
	ExpandAll bool
}

// Tree nests the document under root.
//
// Lines are kept in document order. A child already on the path from the
// root is flagged as a cycle and not expanded. Only assemblies are expanded
// unless ExpandAll is set. A line whose child part is not in the document
// yields a nameless "(missing)" node without an id.
func (d *Document) Tree(root tree.ID, opts Options) (*tree.Node, error) {
	b := newBuilder(d, opts)
	p, ok := b.parts[Ref(root)]
	if !ok {
		return nil, errors.New(errors.ErrCodePartNotFound, "part %s is not in the BOM", root)
	}
	return b.build(p, 0, map[Ref]bool{}), nil
}

// Roots returns the parts that are not used in any other part, either as
// a line's child or as one of its substitutes, in document order. These are the natural starting points for [Document.Tree].
func (d *Document) Roots() []Part {
	used := make(map[Ref]bool, len(d.Items))
	for _, it := range d.Items {
		used[it.Child] = true
		for _, sub := range it.Substitutes {
			used[sub] = true
		}
	}
	var roots []Part
	for _, p := range d.Parts {
		if !used[p.ID] {
			roots = append(roots, p)
		}
	}
	return roots
}

type builder struct {
	opts     Options
	maxDepth int
	parts    map[Ref]*Part
	items    map[Ref][]Item
}

func newBuilder(d *Document, opts Options) *builder {
	b := &builder{
		opts:     opts,
		maxDepth: tree.ClampDepth(opts.MaxDepth),
		parts:    make(map[Ref]*Part, len(d.Parts)),
		items:    make(map[Ref][]Item),
	}
	for i := range d.Parts {
		b.parts[d.Parts[i].ID] = &d.Parts[i]
	}
	for _, it := range d.Items {
		b.items[it.Parent] = append(b.items[it.Parent], it)
	}
	return b
}

func nodeFor(p *Part) *tree.Node {
	return &tree.Node{
		ID:       p.ID.ID(),
		Name:     p.Name,
		Code:     p.IPN,
		Assembly: p.Assembly,
		Revision: p.Revision,
		URL:      p.URL,
	}
}

func (b *builder) build(p *Part, depth int, ancestors map[Ref]bool) *tree.Node {
	node := nodeFor(p)
	if depth >= b.maxDepth {
		return node
	}

	next := make(map[Ref]bool, len(ancestors)+1)
	for id := range ancestors {
		next[id] = true
	}
	next[p.ID] = true

	for _, it := range b.items[p.ID] {
		edge := tree.Edge{Quantity: it.Quantity, Reference: it.Reference, Note: it.Note}

		sp, ok := b.parts[it.Child]
		switch {
		case !ok:
			edge.Child = &tree.Node{Name: tree.MissingName}
		case next[sp.ID]:
			edge.Child = nodeFor(sp)
			edge.Child.Cycle = true
		case sp.Assembly || b.opts.ExpandAll:
			edge.Child = b.build(sp, depth+1, next)
		default:
			edge.Child = nodeFor(sp)
		}

		if ok && b.opts.IncludeSubstitutes {
			edge.Child.Substitutes = b.substitutes(it.Substitutes)
		}
		node.Children = append(node.Children, edge)
	}
	return node
}

func (b *builder) substitutes(refs []Ref) []tree.Substitute {
	var subs []tree.Substitute
	for _, ref := range refs {
		sp, ok := b.parts[ref]
		if !ok {
			continue
		}
		subs = append(subs, tree.Substitute{ID: sp.ID.ID(), Name: sp.Name, Code: sp.IPN, URL: sp.URL})
	}
	return subs
}
