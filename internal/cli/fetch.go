package cli

import (
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/parttree/pkg/io"
	"github.com/matzehuels/parttree/pkg/tree"
)

// fetchCommand saves the hierarchy JSON of a part for offline use.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		flags  sourceFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "fetch [part]",
		Short: "Save the hierarchy of a part as JSON",
		Long: `Save the hierarchy of a part as JSON.

The file uses the same shape as the host's tree endpoint and can be read
back with --tree by every other command. Use "-o -" to write to stdout.`,
		Example: `  parttree fetch 42
  parttree fetch 42 --substitutes -o robot.json
  parttree fetch --bom robot.toml -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, args, &flags)
			prog := newProgress(c.Logger)

			root, err := c.load(cmd, &flags, opts)
			if err != nil {
				return err
			}

			if output == "-" {
				return pkgio.WriteJSON(root, cmd.OutOrStdout())
			}
			path := output
			if path == "" {
				path = defaultBase(opts, root) + ".json"
			}
			if err := pkgio.ExportJSON(root, path); err != nil {
				return err
			}

			prog.done("Fetched " + root.DisplayName())
			printFile(path)
			printStats(tree.Measure(root), false)
			printNextStep("Render it", "parttree render --tree "+path)
			return nil
		},
	}

	addSourceFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default part-<id>.json, - for stdout)")

	return cmd
}
