package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds revision and substitutes to node labels.
	// When false, only name and IPN are shown.
	Detailed bool

	// Direction is the Graphviz rankdir. Empty means TB.
	Direction string
}

// ToDOT converts a hierarchy to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(root *tree.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(opts.Direction))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	tree.Walk(root, tree.VisitorFuncs{
		Node: func(n *tree.Node) {
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.String(), strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed)), ", "))
		},
		Edge: func(from *tree.Node, e tree.Edge) {
			var attrs []string
			if q, ok := tree.FormatQuantity(e.Quantity); ok {
				attrs = append(attrs, fmt.Sprintf("label=%q", "×"+q))
			}
			if e.Child.Cycle {
				attrs = append(attrs, "style=dashed", "color=grey40")
			}
			if len(attrs) == 0 {
				fmt.Fprintf(&buf, "  %q -> %q;\n", from.ID.String(), e.Child.ID.String())
				return
			}
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from.ID.String(), e.Child.ID.String(), strings.Join(attrs, ", "))
		},
	})

	buf.WriteString("}\n")
	return buf.String()
}

func rankdir(d string) string {
	switch d = strings.ToUpper(d); d {
	case "LR", "BT", "RL":
		return d
	}
	return "TB"
}

func fmtLabel(n *tree.Node, detailed bool) string {
	parts := []string{n.DisplayName()}
	if n.Code != "" {
		parts = append(parts, n.Code)
	}
	if detailed {
		if n.Revision != "" {
			parts = append(parts, "rev "+n.Revision)
		}
		var subs []string
		for _, s := range n.Substitutes {
			if l := s.Label(); l != "" {
				subs = append(subs, l)
			}
		}
		if len(subs) > 0 {
			parts = append(parts, "subs: "+strings.Join(subs, ", "))
		}
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *tree.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.URL != "" {
		attrs = append(attrs, fmt.Sprintf("URL=%q", n.URL))
	}
	switch {
	case n.Cycle:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case n.Assembly:
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Failures are reported with the RENDER_FAILED error code so callers can
// fall back to the diagram text.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element (pt units, odd
// offsets) with a plain one that scales inside the panel.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
