// Package render groups the renderers for part hierarchies.
//
// Every renderer consumes a [tree.Node] and walks it with [tree.Walk] or
// its own traversal, so a malformed hierarchy is handled the same way
// everywhere: BOM lines without a part are skipped, and parts flagged as
// closing a cycle are drawn once and never expanded.
//
//   - [mermaid]: flowchart text for the InvenTree panel
//   - [nodelink]: Graphviz DOT and SVG
//   - [outline]: indented terminal trees
//
// Rendering a hierarchy in all three forms:
//
//	text := mermaid.New(mermaid.Options{Direction: "LR"}).Build(root)
//	dot := nodelink.ToDOT(root, nodelink.Options{Direction: "LR"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	fmt.Println(outline.Render(root, outline.Options{Styled: true}))
//
// [tree.Node]: github.com/matzehuels/parttree/pkg/tree.Node
// [tree.Walk]: github.com/matzehuels/parttree/pkg/tree.Walk
// [mermaid]: github.com/matzehuels/parttree/pkg/render/mermaid
// [nodelink]: github.com/matzehuels/parttree/pkg/render/nodelink
// [outline]: github.com/matzehuels/parttree/pkg/render/outline
package render
