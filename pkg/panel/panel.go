// Package panel renders the hierarchy panel shown in the host's part page.
//
// A panel is described by a [View]: a title, an optional iframe pointing at
// the host's own tree page, the Mermaid diagram block with its raw text as
// fallback, and an error slot. [View.Render] turns it into a standalone HTML
// fragment. The page loads Mermaid from a CDN; when the library is missing
// or fails to parse the diagram, the error slot explains why and the raw
// text stays visible.
package panel

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/tree"
)

// MermaidCDN is the script loaded by rendered panels.
const MermaidCDN = "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"

//go:embed templates/panel.html
var templateFS embed.FS

var page = template.Must(template.New("panel.html").Funcs(template.FuncMap{
	"summary": func(m *tree.Metrics) string { return fmt.Sprintf("%d parts, %d levels", m.Nodes+1, m.Depth) },
}).ParseFS(templateFS, "templates/panel.html"))

// View is the declarative description of one panel.
type View struct {
	Title string

	// FrameURL is shown in an iframe above the diagram. Empty omits it.
	FrameURL string

	// Diagram is the Mermaid text. It is rendered client side and also
	// printed verbatim as the fallback.
	Diagram string

	// Error is shown in the error slot. A panel may carry both an error
	// and a diagram.
	Error string

	// Warning is a non-fatal note, such as a part that is not an assembly.
	Warning string

	Metrics *tree.Metrics
	Issues  []tree.Issue

	// ScriptURL overrides MermaidCDN. Empty uses the CDN.
	ScriptURL string
}

// NewView describes the panel for a loaded hierarchy.
func NewView(root *tree.Node, diagram, frameURL string) View {
	v := View{
		Title:    "Product tree",
		FrameURL: frameURL,
		Diagram:  diagram,
	}
	if root == nil {
		return v
	}
	v.Title = "Product tree: " + root.DisplayName()
	if root.Code != "" {
		v.Title += " (" + root.Code + ")"
	}
	if !root.Assembly {
		v.Warning = "This part is not marked as an assembly but may still have a BOM."
	}
	m := tree.Measure(root)
	v.Metrics = &m
	v.Issues = tree.Lint(root)
	return v
}

// ErrorView describes a panel for a part that could not be loaded.
func ErrorView(partID string, err error) View {
	v := View{Title: "Product tree"}
	if partID != "" {
		v.Title += " for part " + partID
	}
	if err != nil {
		v.Error = errors.UserMessage(err)
	}
	return v
}

// Render writes the panel as HTML.
func (v View) Render(w io.Writer) error {
	if v.ScriptURL == "" {
		v.ScriptURL = MermaidCDN
	}
	if err := page.Execute(w, v); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "render panel")
	}
	return nil
}
