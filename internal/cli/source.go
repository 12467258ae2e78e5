package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/parttree/pkg/pipeline"
	"github.com/matzehuels/parttree/pkg/tree"
)

// sourceFlags selects where a hierarchy comes from and how deep it goes.
// Flags left unset fall back to the loaded config.
type sourceFlags struct {
	bomFile     string
	treeFile    string
	depth       int
	substitutes bool
	expandAll   bool
	refresh     bool
	noCache     bool
	direction   string
}

func addSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.bomFile, "bom", "", "read the hierarchy from a local BOM file (.toml or .json)")
	flags.StringVar(&f.treeFile, "tree", "", "read a hierarchy saved with 'fetch'")
	flags.IntVarP(&f.depth, "depth", "d", tree.DefaultMaxDepth, "BOM levels below the part, clamped to 0-25")
	flags.BoolVar(&f.substitutes, "substitutes", false, "include substitute parts")
	flags.BoolVar(&f.expandAll, "expand-all", false, "expand BOM lines of parts not flagged as assemblies (--bom only)")
	flags.BoolVar(&f.refresh, "refresh", false, "bypass cached host responses and renders")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching entirely")
	flags.StringVar(&f.direction, "direction", "", "flowchart direction: TD, TB, BT, LR, RL")
	cmd.MarkFlagsMutuallyExclusive("bom", "tree")
	cmd.MarkFlagsMutuallyExclusive("refresh", "no-cache")
}

// options merges flags, positional args and config into pipeline options.
func (c *CLI) options(cmd *cobra.Command, args []string, f *sourceFlags) pipeline.Options {
	opts := pipeline.Options{
		BOMFile:     f.bomFile,
		TreeFile:    f.treeFile,
		MaxDepth:    c.Config.MaxDepth,
		Substitutes: c.Config.Substitutes,
		ExpandAll:   f.expandAll,
		Refresh:     f.refresh,
		Direction:   c.Config.Direction,
		Logger:      c.Logger,
	}
	if len(args) > 0 {
		opts.PartID = strings.TrimSpace(args[0])
	}
	if cmd.Flags().Changed("depth") {
		opts.MaxDepth = tree.ClampDepth(f.depth)
	}
	if cmd.Flags().Changed("substitutes") {
		opts.Substitutes = f.substitutes
	}
	if f.direction != "" {
		opts.Direction = f.direction
	}
	return opts
}

// execute runs the pipeline for a command. Host fetches show a spinner.
func (c *CLI) execute(cmd *cobra.Command, f *sourceFlags, opts pipeline.Options) (*pipeline.Result, error) {
	ctx := cmd.Context()
	if opts.Source() == pipeline.SourceHost {
		if err := c.requireHost(); err != nil {
			return nil, err
		}
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	if opts.Source() != pipeline.SourceHost {
		return runner.Execute(ctx, opts)
	}
	return withSpinner(ctx, "Fetching part "+opts.PartID+"...", func(ctx context.Context) (*pipeline.Result, error) {
		return runner.Execute(ctx, opts)
	})
}

// load returns only the hierarchy, without building a diagram.
func (c *CLI) load(cmd *cobra.Command, f *sourceFlags, opts pipeline.Options) (*tree.Node, error) {
	ctx := cmd.Context()
	if opts.Source() == pipeline.SourceHost {
		if err := c.requireHost(); err != nil {
			return nil, err
		}
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	return withSpinner(ctx, "Loading hierarchy...", func(ctx context.Context) (*tree.Node, error) {
		return runner.Load(ctx, opts)
	})
}

// defaultBase names output files after the input: the BOM or tree file
// stem, or "part-<id>" for host fetches.
func defaultBase(opts pipeline.Options, root *tree.Node) string {
	var input string
	switch {
	case opts.BOMFile != "":
		input = opts.BOMFile
	case opts.TreeFile != "":
		input = opts.TreeFile
	}
	if input != "" {
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if root != nil && !root.ID.IsZero() && opts.PartID != "" {
			return stem + "-" + sanitize(root.ID.String())
		}
		return stem
	}
	if root != nil && !root.ID.IsZero() {
		return "part-" + sanitize(root.ID.String())
	}
	return "part"
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, s)
}
