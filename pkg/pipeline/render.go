package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/parttree/pkg/cache"
	"github.com/matzehuels/parttree/pkg/errors"
	pkgio "github.com/matzehuels/parttree/pkg/io"
	"github.com/matzehuels/parttree/pkg/observability"
	"github.com/matzehuels/parttree/pkg/render/nodelink"
	"github.com/matzehuels/parttree/pkg/render/outline"
	"github.com/matzehuels/parttree/pkg/tree"
)

type renderInfo struct {
	svgHit bool
	svgErr error
}

// render produces every requested artifact. An SVG failure is reported in
// renderInfo rather than as an error.
func (r *Runner) render(ctx context.Context, root *tree.Node, res *Result, opts Options) (map[string][]byte, renderInfo, error) {
	var info renderInfo
	artifacts := make(map[string][]byte, len(opts.Formats))

	nodelinkOpts := nodelink.Options{Detailed: opts.Detailed, Direction: opts.Direction}

	for _, format := range opts.Formats {
		switch format {
		case FormatMermaid:
			artifacts[format] = []byte(res.Diagram)

		case FormatDOT:
			artifacts[format] = []byte(nodelink.ToDOT(root, nodelinkOpts))

		case FormatSVG:
			data, hit, err := r.renderSVG(ctx, root, res.TreeHash, opts)
			if err != nil {
				info.svgErr = err
				continue
			}
			info.svgHit = hit
			artifacts[format] = data

		case FormatOutline:
			artifacts[format] = []byte(outline.Render(root, outline.Options{}))

		case FormatJSON:
			var buf bytes.Buffer
			if err := pkgio.WriteJSON(root, &buf); err != nil {
				return nil, info, errors.Wrap(errors.ErrCodeInternal, err, "encode tree")
			}
			artifacts[format] = buf.Bytes()

		default:
			return nil, info, ValidateFormat(format)
		}
	}
	return artifacts, info, nil
}

// SVGRenderer turns DOT source into SVG.
type SVGRenderer func(ctx context.Context, dot string) ([]byte, error)

func (r *Runner) renderSVG(ctx context.Context, root *tree.Node, treeHash string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.DiagramKey(treeHash, opts.DiagramKeyOpts(FormatSVG))
	ch := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			ch.OnCacheHit(ctx, "svg")
			return data, true, nil
		}
		ch.OnCacheMiss(ctx, "svg")
	}

	renderSVG := r.SVG
	if renderSVG == nil {
		renderSVG = nodelink.RenderSVG
	}
	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: opts.Detailed, Direction: opts.Direction})
	data, err := renderSVG(ctx, dot)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLDiagram); err == nil {
		ch.OnCacheSet(ctx, "svg", len(data))
	}
	return data, false, nil
}
