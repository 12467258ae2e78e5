package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// wireNode is the host's product tree shape. It doubles as the flattened
// edge form: quantity, reference and note sit next to the child's fields.
type wireNode struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	IPN         string          `json:"ipn,omitempty"`
	Code        string          `json:"code,omitempty"`
	Assembly    bool            `json:"assembly"`
	Revision    string          `json:"revision,omitempty"`
	URL         string          `json:"url,omitempty"`
	Quantity    json.RawMessage `json:"quantity,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Note        string          `json:"note,omitempty"`
	Cycle       bool            `json:"cycle,omitempty"`
	Substitutes []Substitute    `json:"substitutes,omitempty"`
	Children    []Edge          `json:"children"`
	Child       json.RawMessage `json:"child,omitempty"`
}

type wireSubstitute struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	IPN  string `json:"ipn,omitempty"`
	Code string `json:"code,omitempty"`
	URL  string `json:"url,omitempty"`
}

var null = []byte("null")

func isNull(data []byte) bool {
	return len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), null)
}

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	text := string(data)
	if whole, frac, ok := strings.Cut(text, "."); ok && strings.Trim(frac, "0") == "" {
		text = whole
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("id must be a number or string, got %s", data)
	}
	// Integer literals outside int64 keep their digits.
	if !strings.ContainsAny(text, ".eE") {
		*id = ID(text)
		return nil
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		*id = ID(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*id = ID(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// MarshalJSON writes integer ids as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	switch {
	case id.IsZero():
		return null, nil
	case id.numeric():
		return []byte(id), nil
	default:
		return json.Marshal(string(id))
	}
}

// UnmarshalJSON decodes a node in the host's product tree shape.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = w.node()
	return nil
}

// MarshalJSON encodes a node in the host's product tree shape.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireFromNode(&n))
}

// UnmarshalJSON accepts the flattened child form and the explicit
// {"quantity": q, "child": {...}} form. A null entry yields an edge
// without a child.
func (e *Edge) UnmarshalJSON(data []byte) error {
	*e = Edge{}
	if isNull(data) {
		return nil
	}
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.Quantity = parseQuantity(w.Quantity)
	e.Reference = w.Reference
	e.Note = w.Note

	if w.Child != nil {
		if isNull(w.Child) {
			return nil
		}
		var child Node
		if err := json.Unmarshal(w.Child, &child); err != nil {
			return err
		}
		e.Child = &child
		return nil
	}
	child := w.node()
	e.Child = &child
	return nil
}

// MarshalJSON encodes the edge in the flattened form.
func (e Edge) MarshalJSON() ([]byte, error) {
	if e.Child == nil {
		return json.Marshal(struct {
			Quantity json.RawMessage `json:"quantity,omitempty"`
			Child    *Node           `json:"child"`
		}{formatQuantityJSON(e.Quantity), nil})
	}
	w := wireFromNode(e.Child)
	w.Quantity = formatQuantityJSON(e.Quantity)
	w.Reference = e.Reference
	w.Note = e.Note
	return json.Marshal(w)
}

// UnmarshalJSON decodes a substitute, reading the code from "code" or "ipn".
func (s *Substitute) UnmarshalJSON(data []byte) error {
	var w wireSubstitute
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Substitute{ID: w.ID, Name: w.Name, Code: firstNonEmpty(w.Code, w.IPN), URL: w.URL}
	return nil
}

// MarshalJSON encodes a substitute in the host's shape.
func (s Substitute) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSubstitute{ID: s.ID, Name: s.Name, IPN: s.Code, URL: s.URL})
}

func (w *wireNode) node() Node {
	return Node{
		ID:          w.ID,
		Name:        w.Name,
		Code:        firstNonEmpty(w.Code, w.IPN),
		Assembly:    w.Assembly,
		Revision:    w.Revision,
		URL:         w.URL,
		Cycle:       w.Cycle,
		Substitutes: w.Substitutes,
		Children:    w.Children,
	}
}

func wireFromNode(n *Node) wireNode {
	children := n.Children
	if children == nil {
		children = []Edge{}
	}
	return wireNode{
		ID:          n.ID,
		Name:        n.Name,
		IPN:         n.Code,
		Assembly:    n.Assembly,
		Revision:    n.Revision,
		URL:         n.URL,
		Cycle:       n.Cycle,
		Substitutes: n.Substitutes,
		Children:    children,
	}
}

// parseQuantity reads a number or numeric string. Anything else is absent.
func parseQuantity(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	text := string(bytes.TrimSpace(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
	}
	q, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &q
}

func formatQuantityJSON(q *float64) json.RawMessage {
	s, ok := FormatQuantity(q)
	if !ok {
		return nil
	}
	return json.RawMessage(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
