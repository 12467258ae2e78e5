package tree

import (
	"math"
	"strconv"
	"strings"
)

// Placeholder is shown for parts that have no name.
const Placeholder = "(unnamed)"

// MissingName is the name producers give to BOM lines whose part is gone.
const MissingName = "(missing)"

// Depth limits shared by every producer.
const (
	DefaultMaxDepth = 10
	MaxDepthLimit   = 25
)

// ID identifies a part within one hierarchy. The zero value means "no id".
//
// Hosts serve numeric primary keys, local BOM files may use any string; both
// are kept in their canonical text form so that 12, 12.0 and "12" are the
// same part.
type ID string

// IsZero reports whether the id is absent.
func (id ID) IsZero() bool { return id == "" }

// String returns the id text.
func (id ID) String() string { return string(id) }

// IntID converts a numeric primary key to an ID.
func IntID(pk int) ID { return ID(strconv.Itoa(pk)) }

// numeric reports whether the id is a plain non-negative integer.
func (id ID) numeric() bool {
	if id == "" || (len(id) > 1 && id[0] == '0') {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Node is a part in the hierarchy.
type Node struct {
	ID          ID
	Name        string
	Code        string // internal part number (IPN)
	Assembly    bool
	Revision    string
	URL         string
	Cycle       bool // closes a loop back to an ancestor; never expanded
	Substitutes []Substitute
	Children    []Edge
}

// Edge links a parent to one BOM line.
type Edge struct {
	Quantity  *float64
	Reference string
	Note      string
	Child     *Node
}

// Substitute is an alternative part allowed for a BOM line.
type Substitute struct {
	ID   ID
	Name string
	Code string
	URL  string
}

// DisplayName returns the node name or [Placeholder].
func (n *Node) DisplayName() string {
	if n == nil || n.Name == "" {
		return Placeholder
	}
	return n.Name
}

// Label returns the first non-empty of name, code and id.
func (s Substitute) Label() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Code != "":
		return s.Code
	default:
		return s.ID.String()
	}
}

// Valid reports whether the edge points at a child with an id.
// Renderers skip invalid edges.
func (e Edge) Valid() bool {
	return e.Child != nil && !e.Child.ID.IsZero()
}

// Qty returns a pointer to q, for building edges in code.
func Qty(q float64) *float64 { return &q }

// FormatQuantity renders a quantity the way diagrams show it: integral
// values without a decimal point, fractional values in their shortest form.
// The second result is false when the quantity is absent or not finite.
func FormatQuantity(q *float64) (string, bool) {
	if q == nil || math.IsNaN(*q) || math.IsInf(*q, 0) {
		return "", false
	}
	return strconv.FormatFloat(*q, 'f', -1, 64), true
}

// ClampDepth bounds a requested depth to [0, MaxDepthLimit].
func ClampDepth(depth int) int {
	return max(0, min(depth, MaxDepthLimit))
}

// ParseDepth parses a max_depth query value. Missing or malformed values
// fall back to [DefaultMaxDepth]; the result is clamped.
func ParseDepth(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultMaxDepth
	}
	d, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultMaxDepth
	}
	return ClampDepth(d)
}

// Truthy reports whether a query flag value is affirmative.
func Truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
