package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/pipeline"
)

// extensions maps output formats to file extensions.
var extensions = map[string]string{
	pipeline.FormatMermaid: "mmd",
	pipeline.FormatDOT:     "dot",
	pipeline.FormatSVG:     "svg",
	pipeline.FormatJSON:    "json",
	pipeline.FormatOutline: "txt",
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file (single format) or base path
	formats  string // comma-separated formats
	detailed bool   // revision and substitutes in DOT/SVG labels
}

// renderCommand writes diagram artifacts for a part.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags sourceFlags
		ro    renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render [part]",
		Short: "Write diagram files (svg, mermaid, dot, json, outline)",
		Long: `Write diagram files for a part hierarchy.

Each format is written to <base>.<ext>. The base defaults to part-<id>,
or to the BOM/tree file name. If the SVG cannot be rendered the Mermaid
text is written instead.`,
		Example: `  parttree render 42
  parttree render 42 -f svg,mermaid -o out/robot
  parttree render --tree robot.json -f svg --detailed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, args, &flags)
			opts.Formats = pipeline.ParseFormats(ro.formats)
			if len(opts.Formats) == 0 {
				opts.Formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Detailed = ro.detailed

			prog := newProgress(c.Logger)
			result, err := c.execute(cmd, &flags, opts)
			if err != nil {
				return err
			}
			printIssues(result.Issues)

			paths, err := writeArtifacts(result, opts, ro.output)
			if err != nil {
				return err
			}
			prog.done("Rendered " + result.Tree.DisplayName())
			for _, p := range paths {
				printFile(p)
			}
			printStats(result.Metrics, result.CacheInfo.DiagramHit || result.CacheInfo.SVGHit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), mermaid, dot, json, outline (comma-separated)")
	cmd.Flags().BoolVar(&ro.detailed, "detailed", false, "show revision and substitutes in svg/dot labels")
	addSourceFlags(cmd, &flags)

	return cmd
}

// writeArtifacts writes every artifact of result and returns the paths in
// format order. A failed SVG is replaced by the Mermaid text.
func writeArtifacts(result *pipeline.Result, opts pipeline.Options, output string) ([]string, error) {
	artifacts := make(map[string][]byte, len(result.Artifacts)+1)
	for f, data := range result.Artifacts {
		artifacts[f] = data
	}
	if result.RenderError != nil {
		printWarning("SVG rendering failed, writing Mermaid text instead")
		printDetail("%s", errors.UserMessage(result.RenderError))
		artifacts[pipeline.FormatMermaid] = []byte(result.Diagram)
	}

	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formatOrder(opts, formats[i]) < formatOrder(opts, formats[j]) })

	base := basePath(output, defaultBase(opts, result.Tree))
	single := len(formats) == 1 && output != "" && filepath.Ext(output) != ""

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + extensions[f]
		if single {
			path = output
		}
		if err := writeFile(path, artifacts[f]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// formatOrder ranks a format by its position in the request; the fallback
// mermaid file sorts last when it was not requested.
func formatOrder(opts pipeline.Options, format string) int {
	for i, f := range opts.Formats {
		if f == format {
			return i
		}
	}
	return len(opts.Formats)
}

// basePath derives the output base from -o. Known format extensions are
// stripped so "robot.svg" and "robot" name the same set of files.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	for _, known := range extensions {
		if strings.EqualFold(ext, "."+known) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
