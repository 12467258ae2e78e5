package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/parttree/pkg/cache"
	"github.com/matzehuels/parttree/pkg/errors"
	pkgio "github.com/matzehuels/parttree/pkg/io"
	"github.com/matzehuels/parttree/pkg/observability"
	"github.com/matzehuels/parttree/pkg/render/mermaid"
	"github.com/matzehuels/parttree/pkg/source/bom"
	"github.com/matzehuels/parttree/pkg/source/inventree"
	"github.com/matzehuels/parttree/pkg/tree"
)

// TreeFetcher loads hierarchies from a host. *inventree.Client implements it.
type TreeFetcher interface {
	FetchTree(ctx context.Context, partID int, opts inventree.FetchOptions) (*tree.Node, error)
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and HTTP service use it.
//
// The Runner doesn't store pipeline results. Multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Host fetches hierarchies when no local file is given. May be nil
	// for runs that only read files.
	Host TreeFetcher

	// SVG renders DOT to SVG. Nil uses Graphviz.
	SVG SVGRenderer
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → build → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		ID:        uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.ID[:8])

	// Stage 1: Load
	loadStart := time.Now()
	root, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = root
	result.Stats.LoadTime = time.Since(loadStart)
	result.Metrics = tree.Measure(root)
	result.Stats.NodeCount = result.Metrics.Nodes + 1
	result.Issues = tree.Lint(root)

	if result.TreeHash, err = cache.HashJSON(root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash tree")
	}

	logger.Info("loaded hierarchy",
		"source", opts.Source(),
		"part", root.ID,
		"nodes", result.Stats.NodeCount,
		"depth", result.Metrics.Depth,
		"duration", result.Stats.LoadTime)
	for _, issue := range result.Issues {
		logger.Warn("malformed hierarchy", "kind", issue.Kind, "path", issue.Path, "detail", issue.Message)
	}

	// Stage 2: Build
	buildStart := time.Now()
	result.Diagram, result.CacheInfo.DiagramHit = r.buildCached(ctx, root, result.TreeHash, opts)
	result.Stats.BuildTime = time.Since(buildStart)

	logger.Debug("built diagram",
		"lines", strings.Count(result.Diagram, "\n")+1,
		"cached", result.CacheInfo.DiagramHit,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, info, err := r.render(ctx, root, result, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.SVGHit = info.svgHit
	result.RenderError = info.svgErr

	if result.RenderError != nil {
		logger.Warn("svg render failed, falling back to diagram text", "error", result.RenderError)
	}
	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load returns the hierarchy selected by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (*tree.Node, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	source := opts.Source()
	part := strings.TrimSpace(opts.PartID)
	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, source, part)
	start := time.Now()

	root, err := r.load(ctx, source, part, opts)

	nodes := 0
	if root != nil {
		nodes = tree.Measure(root).Nodes + 1
	}
	hooks.OnFetchComplete(ctx, source, part, nodes, time.Since(start), err)
	return root, err
}

func (r *Runner) load(ctx context.Context, source, part string, opts Options) (*tree.Node, error) {
	switch source {
	case SourceBOM:
		doc, err := bom.Load(opts.BOMFile)
		if err != nil {
			return nil, err
		}
		id, err := bomRoot(doc, part)
		if err != nil {
			return nil, err
		}
		return doc.Tree(id, bom.Options{
			MaxDepth:           opts.MaxDepth,
			IncludeSubstitutes: opts.Substitutes,
			ExpandAll:          opts.ExpandAll,
		})

	case SourceFile:
		root, err := pkgio.ImportJSON(opts.TreeFile)
		if err != nil {
			return nil, err
		}
		if root.ID.IsZero() {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: root part has no id", opts.TreeFile)
		}
		return root, nil

	default:
		if r.Host == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "no InvenTree host configured and no BOM or tree file given")
		}
		id, err := errors.ParsePartID(part)
		if err != nil {
			return nil, err
		}
		return r.Host.FetchTree(ctx, id, inventree.FetchOptions{
			MaxDepth:           opts.MaxDepth,
			IncludeSubstitutes: opts.Substitutes,
			Refresh:            opts.Refresh,
		})
	}
}

// bomRoot picks the root part: the requested one, or the only top-level
// part when none was requested.
func bomRoot(doc *bom.Document, part string) (tree.ID, error) {
	if part != "" {
		return tree.ID(part), nil
	}
	roots := doc.Roots()
	if len(roots) != 1 {
		names := make([]string, 0, len(roots))
		for _, p := range roots {
			names = append(names, fmt.Sprintf("%s (%s)", p.ID, p.Name))
		}
		return "", errors.New(errors.ErrCodeInvalidPartID,
			"BOM has %d top-level parts, pick one with a part id: %s", len(roots), strings.Join(names, ", "))
	}
	return roots[0].ID.ID(), nil
}

// Build converts root to Mermaid text. It never fails; malformed elements
// are skipped.
func (r *Runner) Build(ctx context.Context, root *tree.Node, direction string) string {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, FormatMermaid, tree.Measure(root).Nodes+1)
	start := time.Now()
	text := mermaid.New(mermaid.Options{Direction: direction}).Build(root)
	hooks.OnBuildComplete(ctx, FormatMermaid, time.Since(start), nil)
	return text
}

func (r *Runner) buildCached(ctx context.Context, root *tree.Node, treeHash string, opts Options) (string, bool) {
	key := r.Keyer.DiagramKey(treeHash, opts.DiagramKeyOpts(FormatMermaid))
	ch := observability.Cache()

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		ch.OnCacheHit(ctx, "diagram")
		return string(data), true
	}
	ch.OnCacheMiss(ctx, "diagram")

	text := r.Build(ctx, root, opts.Direction)
	if err := r.Cache.Set(ctx, key, []byte(text), cache.TTLDiagram); err != nil {
		opts.Logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		ch.OnCacheSet(ctx, "diagram", len(text))
	}
	return text, false
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
