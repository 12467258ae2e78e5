package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/parttree/pkg/render/outline"
)

// outlineCommand prints the hierarchy as an indented tree.
func (c *CLI) outlineCommand() *cobra.Command {
	var (
		flags   sourceFlags
		plain   bool
		rounded bool
	)

	cmd := &cobra.Command{
		Use:   "outline [part]",
		Short: "Print the part hierarchy as a tree",
		Example: `  parttree outline 42 --depth 2
  parttree outline --bom robot.toml --plain > robot.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, args, &flags)

			root, err := c.load(cmd, &flags, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outline.Render(root, outline.Options{
				Styled:  !plain,
				Rounded: rounded,
			}))
			return nil
		},
	}

	addSourceFlags(cmd, &flags)
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")
	cmd.Flags().BoolVar(&rounded, "rounded", false, "use rounded connectors")

	return cmd
}
