package nodelink

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/tree"
)

func sample() *tree.Node {
	return &tree.Node{ID: "1", Name: "Robot", Code: "R-1", Assembly: true, URL: "/part/1/", Children: []tree.Edge{
		{Quantity: tree.Qty(2), Child: &tree.Node{ID: "2", Name: "Arm", Revision: "C",
			Substitutes: []tree.Substitute{{ID: "8", Name: "Arm XL"}},
			Children: []tree.Edge{
				{Child: &tree.Node{ID: "1", Name: "Robot", Cycle: true}},
			}}},
		{Child: &tree.Node{Name: tree.MissingName}},
	}}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sample(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, "rankdir=TB;") {
		t.Error("ToDOT() should default to rankdir=TB")
	}
	if !strings.Contains(dot, `"1" [label="Robot\nR-1", URL="/part/1/", fillcolor=lightblue];`) {
		t.Errorf("ToDOT() root declaration wrong:\n%s", dot)
	}
	if !strings.Contains(dot, `"1" -> "2" [label="×2"];`) {
		t.Errorf("ToDOT() missing quantity edge:\n%s", dot)
	}
	if !strings.Contains(dot, `"2" -> "1" [style=dashed, color=grey40];`) {
		t.Errorf("ToDOT() missing dashed cycle edge:\n%s", dot)
	}
	if n := len(declLine("1").FindAllStringIndex(dot, -1)); n != 1 {
		t.Errorf("ToDOT() declared the root %d times, want once", n)
	}
	if strings.Contains(dot, "missing") {
		t.Error("ToDOT() rendered a part without id")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sample(), Options{Detailed: true, Direction: "lr"})

	if !strings.Contains(dot, "rankdir=LR;") {
		t.Error("ToDOT() ignored direction")
	}
	if !strings.Contains(dot, `rev C`) {
		t.Error("ToDOT() detailed output missing revision")
	}
	if !strings.Contains(dot, `subs: Arm XL`) {
		t.Error("ToDOT() detailed output missing substitutes")
	}
}

func TestFmtLabel(t *testing.T) {
	n := &tree.Node{ID: "1"}
	if got := fmtLabel(n, false); got != tree.Placeholder {
		t.Errorf("fmtLabel() = %q, want placeholder", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sample(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
	if !strings.Contains(string(svg), `viewBox="0 0 `) {
		t.Error("RenderSVG() did not normalize viewBox")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), "digraph {")
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("RenderSVG() error = %v, want RENDER_FAILED", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Error("normalizeViewBox() changed svg without viewBox")
	}
}

// declLine matches the node declaration of id, not edges that point at it.
func declLine(id string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^\s*"` + regexp.QuoteMeta(id) + `" \[`)
}
