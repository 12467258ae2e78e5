// Package pipeline provides the diagram pipeline shared by the CLI and the
// HTTP service.
//
// # Architecture
//
// A run has three stages:
//
//  1. Load: fetch the hierarchy from an InvenTree host, build it from a
//     local BOM file, or read a tree JSON file
//  2. Build: convert the hierarchy to Mermaid flowchart text
//  3. Render: produce the other requested artifacts (DOT, SVG, outline, JSON)
//
// Diagram text and SVG output are cached by a hash of the hierarchy, so two
// sources that yield the same tree share cache entries.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	runner.Host = client // *inventree.Client
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    PartID:   "12",
//	    MaxDepth: tree.DefaultMaxDepth,
//	    Formats:  []string{pipeline.FormatMermaid, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Diagram)
//
// A failed SVG render does not fail the run: the result keeps the Mermaid
// text and records RenderError so callers can show the text instead.
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/parttree/pkg/cache"
	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/render/mermaid"
	"github.com/matzehuels/parttree/pkg/tree"
)

// Output formats.
const (
	FormatMermaid = "mermaid"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
	FormatJSON    = "json"
	FormatOutline = "outline"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatMermaid: true,
	FormatDOT:     true,
	FormatSVG:     true,
	FormatJSON:    true,
	FormatOutline: true,
}

// Source names, as reported to observability hooks.
const (
	SourceHost = "inventree"
	SourceBOM  = "bom"
	SourceFile = "file"
)

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Source options. With neither BOMFile nor TreeFile set the runner's
	// host client is used.
	PartID      string `json:"part_id,omitempty"`
	BOMFile     string `json:"bom_file,omitempty"`
	TreeFile    string `json:"tree_file,omitempty"`
	MaxDepth    int    `json:"max_depth"` // BOM levels below the part; 0 is the part alone
	Substitutes bool   `json:"substitutes,omitempty"`
	ExpandAll   bool   `json:"expand_all,omitempty"` // BOM files only
	Refresh     bool   `json:"refresh,omitempty"`

	// Output options
	Formats   []string `json:"formats,omitempty"`
	Direction string   `json:"direction,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"` // DOT/SVG labels with revision and substitutes

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run in logs and API responses.
	ID string

	// Tree is the loaded hierarchy.
	Tree *tree.Node

	// TreeHash is the content hash of Tree.
	TreeHash string

	// Diagram is the Mermaid flowchart text. It is always set.
	Diagram string

	// Artifacts contains the requested outputs keyed by format.
	Artifacts map[string][]byte

	Metrics tree.Metrics
	Issues  []tree.Issue

	// RenderError is set when SVG rendering failed. Diagram is still valid.
	RenderError error

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LoadTime   time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DiagramHit bool // Mermaid text came from cache
	SVGHit     bool // SVG came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: mermaid, dot, svg, json, outline)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list. An empty string
// yields nil, which the runner treats as mermaid only.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.BOMFile != "" && o.TreeFile != "" {
		return errors.New(errors.ErrCodeInvalidInput, "use either a BOM file or a tree file, not both")
	}
	if err := errors.ValidateMaxDepth(o.MaxDepth, tree.MaxDepthLimit); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatMermaid}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Direction == "" {
		o.Direction = mermaid.TopDown
	}
	if !mermaid.ValidDirection(o.Direction) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid direction: %q (must be one of: TD, TB, BT, LR, RL)", o.Direction)
	}
	o.Direction = strings.ToUpper(o.Direction)
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Source reports which loader the options select.
func (o *Options) Source() string {
	switch {
	case o.BOMFile != "":
		return SourceBOM
	case o.TreeFile != "":
		return SourceFile
	default:
		return SourceHost
	}
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// DiagramKeyOpts returns cache key options for an artifact.
func (o *Options) DiagramKeyOpts(format string) cache.DiagramKeyOpts {
	return cache.DiagramKeyOpts{
		Format:    format,
		Direction: o.Direction,
		Detailed:  format != FormatMermaid && o.Detailed,
	}
}
