package tree

// Visitor receives the parts of a hierarchy in diagram order.
type Visitor interface {
	// VisitNode is called the first time an id is reached.
	VisitNode(n *Node)
	// VisitEdge is called for every edge whose child has an id, before the
	// child itself is visited.
	VisitEdge(from *Node, e Edge)
}

// Walk traverses root depth-first in document order.
//
// Nodes without an id and edges without a valid child are skipped. Each id
// is declared once and expanded once, so shared subtrees appear a single
// time and the walk terminates even when a producer failed to flag a loop.
// Children flagged with Cycle are declared but never expanded.
func Walk(root *Node, v Visitor) {
	w := walker{
		v:        v,
		declared: make(map[ID]bool),
		expanded: make(map[ID]bool),
	}
	w.visit(root)
}

type walker struct {
	v        Visitor
	declared map[ID]bool
	expanded map[ID]bool
}

func (w *walker) declare(n *Node) {
	if w.declared[n.ID] {
		return
	}
	w.declared[n.ID] = true
	w.v.VisitNode(n)
}

func (w *walker) visit(n *Node) {
	if n == nil || n.ID.IsZero() {
		return
	}
	w.declare(n)
	if w.expanded[n.ID] {
		return
	}
	w.expanded[n.ID] = true

	for _, e := range n.Children {
		if !e.Valid() {
			continue
		}
		w.v.VisitEdge(n, e)
		if e.Child.Cycle {
			w.declare(e.Child)
			continue
		}
		w.visit(e.Child)
	}
}

// VisitorFuncs adapts plain functions to [Visitor]. Nil fields are ignored.
type VisitorFuncs struct {
	Node func(n *Node)
	Edge func(from *Node, e Edge)
}

// VisitNode calls f.Node.
func (f VisitorFuncs) VisitNode(n *Node) {
	if f.Node != nil {
		f.Node(n)
	}
}

// VisitEdge calls f.Edge.
func (f VisitorFuncs) VisitEdge(from *Node, e Edge) {
	if f.Edge != nil {
		f.Edge(from, e)
	}
}
