package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/pipeline"
)

// diagramCommand prints the Mermaid flowchart of a part.
func (c *CLI) diagramCommand() *cobra.Command {
	var (
		flags  sourceFlags
		output string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "diagram [part]",
		Short: "Print the Mermaid flowchart of a part hierarchy",
		Long: `Print the Mermaid flowchart of a part hierarchy.

The part is fetched from the configured InvenTree host unless --bom or
--tree is given. With --bom the part may be omitted when the file has a
single top-level assembly.`,
		Example: `  parttree diagram 42
  parttree diagram 42 --depth 3 --direction LR -o robot.mmd
  parttree diagram --bom robot.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, args, &flags)
			opts.Formats = []string{pipeline.FormatMermaid}

			result, err := c.execute(cmd, &flags, opts)
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Diagram)
			} else {
				if err := os.WriteFile(output, []byte(result.Diagram+"\n"), 0o644); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
				}
			}

			if quiet {
				return nil
			}
			printIssues(result.Issues)
			if output != "" {
				printSuccess("Diagram written")
				printFile(output)
				printStats(result.Metrics, result.CacheInfo.DiagramHit)
			}
			return nil
		},
	}

	addSourceFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the diagram to a file instead of stdout")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress warnings and statistics")

	return cmd
}
