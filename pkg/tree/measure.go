package tree

// Metrics summarises the size of a hierarchy.
type Metrics struct {
	Depth    int `json:"depth"`    // deepest BOM level below the root
	Nodes    int `json:"nodes"`    // BOM lines, counted every time they occur
	Distinct int `json:"distinct"` // distinct part ids, root included
	Cycles   int `json:"cycles"`   // children flagged as closing a loop
}

// Measure computes [Metrics] for root.
//
// Every child entry counts as a node, including repeated parts and parts
// without an id. Cycle-flagged children count but are not descended into.
// A child whose id already appears on the current path is treated the same
// way, so unflagged loops cannot recurse forever.
func Measure(root *Node) Metrics {
	var m Metrics
	if root == nil {
		return m
	}
	ids := make(map[ID]bool)
	if !root.ID.IsZero() {
		ids[root.ID] = true
	}
	path := make(map[ID]bool)
	m.Depth, m.Nodes = measure(root, 0, path, ids, &m.Cycles)
	m.Distinct = len(ids)
	return m
}

func measure(n *Node, depth int, path, ids map[ID]bool, cycles *int) (maxDepth, count int) {
	maxDepth = depth
	if !n.ID.IsZero() {
		path[n.ID] = true
		defer delete(path, n.ID)
	}

	for _, e := range n.Children {
		c := e.Child
		if c == nil {
			continue
		}
		count++
		maxDepth = max(maxDepth, depth+1)
		if !c.ID.IsZero() {
			ids[c.ID] = true
		}
		if c.Cycle {
			*cycles++
			continue
		}
		if !c.ID.IsZero() && path[c.ID] {
			continue
		}
		d, sub := measure(c, depth+1, path, ids, cycles)
		count += sub
		maxDepth = max(maxDepth, d)
	}
	return maxDepth, count
}
