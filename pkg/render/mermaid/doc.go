// Package mermaid renders part hierarchies as Mermaid flowchart definitions.
//
// # Overview
//
// A [Builder] turns a [tree.Node] into the text a Mermaid renderer (or a
// human reading the fallback) consumes:
//
//	graph TD
//	P1["Robot\nR-1"]
//	P1 -->|2| P2
//	P2["Arm"]
//
// Each part id is declared once, no matter how many BOM lines reference it.
// Edges into a child flagged as closing a cycle are dashed (-.->) and the
// child is never expanded. Quantities label the edge; lines without a
// quantity are unlabelled.
//
// # Leniency
//
// The builder never fails. Parts without an id and BOM lines without a part
// are skipped without a trace; call [tree.Lint] first when they should be
// reported.
//
// # Labels
//
// A node label is the part name (or a placeholder), then the IPN, then a
// "subs: ..." line listing substitutes, then a cycle marker. Lines are
// joined with a literal \n, which Mermaid renders as a line break. Quotes
// and square brackets are replaced so the declaration stays valid.
//
// [tree.Node]: github.com/matzehuels/parttree/pkg/tree.Node
// [tree.Lint]: github.com/matzehuels/parttree/pkg/tree.Lint
package mermaid
