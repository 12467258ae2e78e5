// Package nodelink renders part hierarchies as Graphviz node-link diagrams.
//
// # Overview
//
// This is the visual counterpart of the Mermaid text: the same traversal
// (each part declared once, cycle-flagged children never expanded) emitted
// as Graphviz DOT and rendered in-process to SVG.
//
// # Usage
//
//	dot := nodelink.ToDOT(root, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels add revision and substitutes
//   - Direction: Graphviz rankdir (TB, LR, BT, RL); defaults to TB
//
// # DOT Format
//
// Parts appear as rounded boxes. Assemblies are filled light blue, parts
// that close a cycle use a dashed outline, and edges into them are dashed.
// Quantities label the edges.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package nodelink
