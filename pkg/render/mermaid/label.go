package mermaid

import (
	"strings"

	"github.com/matzehuels/parttree/pkg/tree"
)

// CycleMarker ends the label of a part flagged as closing a cycle.
const CycleMarker = "↻ cycle"

// lineBreak separates label lines. Mermaid turns the two-character
// sequence into a line break inside a quoted label.
const lineBreak = `\n`

// labelEscaper also maps backslashes so user text cannot spell lineBreak.
var labelEscaper = strings.NewReplacer(
	`\`, `/`,
	`"`, `'`,
	`[`, `(`,
	`]`, `)`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// escape makes s safe inside a quoted node declaration.
func escape(s string) string {
	if s == "" {
		return ""
	}
	return labelEscaper.Replace(s)
}

func nodeLabel(n *tree.Node) string {
	parts := []string{escape(n.DisplayName())}
	if n.Code != "" {
		parts = append(parts, escape(n.Code))
	}
	if subs := substituteLine(n.Substitutes); subs != "" {
		parts = append(parts, subs)
	}
	if n.Cycle {
		parts = append(parts, CycleMarker)
	}
	return strings.Join(parts, lineBreak)
}

func substituteLine(subs []tree.Substitute) string {
	var names []string
	for _, s := range subs {
		if l := s.Label(); l != "" {
			names = append(names, escape(l))
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "subs: " + strings.Join(names, ", ")
}
