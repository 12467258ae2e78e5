package tree

import "fmt"

// IssueKind classifies a [Lint] finding.
type IssueKind string

const (
	IssueMissingID     IssueKind = "missing-id"
	IssueMissingChild  IssueKind = "missing-child"
	IssueNameConflict  IssueKind = "name-conflict"
	IssueUnmarkedCycle IssueKind = "unmarked-cycle"
)

// Issue is a malformed element that renderers silently skip or collapse.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Path    string    `json:"path"` // slash-separated ids from the root, "?" for missing ids
	Message string    `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s at %s: %s", i.Kind, i.Path, i.Message)
}

// Lint reports elements of root that renderers drop or merge without
// saying so. It never modifies root and returns nil for a clean tree.
func Lint(root *Node) []Issue {
	if root == nil {
		return nil
	}
	l := linter{names: make(map[ID]string), path: make(map[ID]bool)}
	l.check(root, pathOf("", root.ID))
	return l.issues
}

type linter struct {
	issues []Issue
	names  map[ID]string
	path   map[ID]bool
}

func (l *linter) add(kind IssueKind, at, format string, args ...any) {
	l.issues = append(l.issues, Issue{Kind: kind, Path: at, Message: fmt.Sprintf(format, args...)})
}

func (l *linter) check(n *Node, at string) {
	if n.ID.IsZero() {
		l.add(IssueMissingID, at, "part %q has no id and is not rendered", n.DisplayName())
		return
	}
	if prev, ok := l.names[n.ID]; ok && prev != n.Name {
		l.add(IssueNameConflict, at, "id %s is named %q here and %q elsewhere; the first name is shown", n.ID, n.Name, prev)
	} else if !ok {
		l.names[n.ID] = n.Name
	}
	if n.Cycle {
		return
	}

	l.path[n.ID] = true
	defer delete(l.path, n.ID)

	for i, e := range n.Children {
		if e.Child == nil {
			l.add(IssueMissingChild, at, "BOM line %d has no part", i+1)
			continue
		}
		child := pathOf(at, e.Child.ID)
		if !e.Child.ID.IsZero() && l.path[e.Child.ID] && !e.Child.Cycle {
			l.add(IssueUnmarkedCycle, child, "part %s contains itself but is not flagged as a cycle", e.Child.ID)
			continue
		}
		l.check(e.Child, child)
	}
}

func pathOf(parent string, id ID) string {
	seg := id.String()
	if id.IsZero() {
		seg = "?"
	}
	if parent == "" {
		return seg
	}
	return parent + "/" + seg
}
