// Package tree provides the part hierarchy model rendered by parttree.
//
// # Overview
//
// A hierarchy is a rooted tree of [Node] values connected by [Edge] values.
// Each edge carries the bill-of-materials quantity of the child inside its
// parent. Producers (the inventory host or a local BOM file) flag a child
// that closes a loop back to one of its ancestors with [Node.Cycle]; such a
// child is never expanded further.
//
// The model is read-only to renderers. Renderers tolerate malformed input:
// nodes without an id and edges without a child are skipped. Use [Lint] to
// list those elements when a caller wants to report them.
//
// # JSON
//
// [Node] decodes the payload served by the host's product tree endpoint:
//
//	{
//	  "id": 12, "name": "Gearbox", "ipn": "GB-01", "assembly": true,
//	  "children": [
//	    {"id": 40, "name": "Shaft", "quantity": 2, "reference": "S1", "children": []}
//	  ]
//	}
//
// Child entries are flattened: the edge fields (quantity, reference, note)
// live on the child object. The explicit form {"quantity": 2, "child": {...}}
// is accepted as well. Ids may be numbers or strings.
//
// # Metrics
//
// [Measure] reports the depth and size of a hierarchy; [Walk] visits every
// edge in document order with the same dedup rules as the renderers.
package tree
