// Package io reads and writes part hierarchies as JSON documents.
//
// # Overview
//
// The document format is the one served by the host's product tree
// endpoint, so a response saved with `parttree fetch` can be rendered later
// without network access:
//
//	{
//	  "id": 1, "name": "Robot", "ipn": "R-1", "assembly": true,
//	  "children": [
//	    {"id": 2, "name": "Arm", "quantity": 2, "children": []}
//	  ]
//	}
//
// See [tree.Node] for the accepted field variants.
//
// # Import
//
// Use [ImportJSON] to read a hierarchy from a file path, or [ReadJSON] to
// read from any io.Reader:
//
//	root, err := io.ImportJSON("robot.json")
//
// Malformed documents are reported with the INVALID_FORMAT error code.
// Structurally odd but parseable trees (missing ids, dangling BOM lines) are
// accepted; use [tree.Lint] to list them.
//
// # Export
//
// Use [ExportJSON] to write a hierarchy to a file, or [WriteJSON] to write
// to any io.Writer. Output is indented and re-imports to an equal tree.
//
// [tree.Node]: github.com/matzehuels/parttree/pkg/tree.Node
// [tree.Lint]: github.com/matzehuels/parttree/pkg/tree.Lint
package io
