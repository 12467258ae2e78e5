// Package pkg provides the libraries behind parttree, which draws InvenTree
// part hierarchies.
//
// # Overview
//
// A part hierarchy is a part together with its bill of materials, expanded
// level by level: every BOM line points at a child part, which may itself
// be an assembly. The pkg directory is organized into four areas:
//
//  1. [tree] - The hierarchy model, traversal, metrics and lint
//  2. [source] - Loaders: the InvenTree tree endpoint and local BOM files
//  3. [render] - Mermaid, Graphviz and outline renderers
//  4. [pipeline] - Orchestration (load → build → render) with caching
//
// Supporting packages: [cache] (file and Redis stores), [config],
// [errors], [httputil], [io], [observability], [panel] and [server].
//
// # Architecture
//
//	InvenTree host / BOM file / saved tree JSON
//	         ↓
//	    [source] packages (load a tree.Node)
//	         ↓
//	    [tree] package (walk, measure, lint)
//	         ↓
//	    [render] packages (Mermaid, DOT/SVG, outline)
//	         ↓
//	    CLI output, HTTP API, HTML panel
//
// # Quick Start
//
// Build the Mermaid diagram of a part fetched from a host:
//
//	client, _ := inventree.NewClient(inventree.Config{
//	    Host:  "https://inventree.example.com",
//	    Token: token,
//	})
//	root, _ := client.FetchTree(ctx, 42, inventree.FetchOptions{MaxDepth: 5})
//	fmt.Println(mermaid.New(mermaid.Options{}).Build(root))
//
// Or let the pipeline handle loading, caching and rendering:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	runner.Host = client
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    PartID:   "42",
//	    MaxDepth: 5,
//	    Formats:  []string{pipeline.FormatMermaid, pipeline.FormatSVG},
//	})
//
// [tree]: github.com/matzehuels/parttree/pkg/tree
// [source]: github.com/matzehuels/parttree/pkg/source
// [render]: github.com/matzehuels/parttree/pkg/render
// [pipeline]: github.com/matzehuels/parttree/pkg/pipeline
// [cache]: github.com/matzehuels/parttree/pkg/cache
// [config]: github.com/matzehuels/parttree/pkg/config
// [errors]: github.com/matzehuels/parttree/pkg/errors
// [httputil]: github.com/matzehuels/parttree/pkg/httputil
// [io]: github.com/matzehuels/parttree/pkg/io
// [observability]: github.com/matzehuels/parttree/pkg/observability
// [panel]: github.com/matzehuels/parttree/pkg/panel
// [server]: github.com/matzehuels/parttree/pkg/server
package pkg
