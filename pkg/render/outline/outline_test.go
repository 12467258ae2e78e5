package outline

import (
	"strings"
	"testing"

	"github.com/matzehuels/parttree/pkg/tree"
)

func TestRender(t *testing.T) {
	shared := &tree.Node{ID: "3", Name: "Screw", Children: []tree.Edge{{Child: &tree.Node{ID: "4", Name: "Thread"}}}}
	root := &tree.Node{ID: "1", Name: "Robot", Code: "R-1", Children: []tree.Edge{
		{Quantity: tree.Qty(2), Child: &tree.Node{ID: "2", Name: "Arm", Children: []tree.Edge{
			{Quantity: tree.Qty(1), Child: &tree.Node{ID: "1", Name: "Robot", Cycle: true}},
			{Quantity: tree.Qty(6), Child: shared},
		}}},
		{Quantity: tree.Qty(4), Child: shared},
		{Child: &tree.Node{Name: tree.MissingName}},
	}}

	out := Render(root, Options{})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	for _, want := range []string{
		"Robot (R-1)",
		"2 × Arm",
		"↻ 1 × Robot",
		"6 × Screw",
		"Thread",
		"4 × Screw (see above)",
		"(missing)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("outline missing %q:\n%s", want, out)
		}
	}
	if lines[0] != "Robot (R-1)" {
		t.Errorf("first line = %q", lines[0])
	}
	if strings.Count(out, "Thread") != 1 {
		t.Errorf("shared subtree expanded twice:\n%s", out)
	}
}

func TestRenderNil(t *testing.T) {
	if got := Render(nil, Options{}); got != "" {
		t.Errorf("Render(nil) = %q", got)
	}
}

func TestRenderRounded(t *testing.T) {
	root := &tree.Node{ID: "1", Name: "A", Children: []tree.Edge{{Child: &tree.Node{ID: "2", Name: "B"}}}}
	if out := Render(root, Options{Rounded: true}); !strings.Contains(out, "╰──") {
		t.Errorf("rounded outline = %q", out)
	}
}
