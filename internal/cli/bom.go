package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/source/bom"
	"github.com/matzehuels/parttree/pkg/tree"
)

// bomCommand groups commands that inspect local BOM files.
func (c *CLI) bomCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bom",
		Short: "Inspect local BOM files",
	}

	cmd.AddCommand(c.bomRootsCommand())
	cmd.AddCommand(c.bomLintCommand())

	return cmd
}

// bomRootsCommand lists the top-level parts of a BOM file.
func (c *CLI) bomRootsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roots FILE",
		Short: "List parts that no other part uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := bom.Load(args[0])
			if err != nil {
				return err
			}
			roots := doc.Roots()
			if len(roots) == 0 {
				printWarning("No top-level parts: every part is used by another")
				return nil
			}
			for _, p := range roots {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.ID, p.Name)
			}
			return nil
		},
	}
}

// bomLintCommand checks every hierarchy of a BOM file for malformed lines.
func (c *CLI) bomLintCommand() *cobra.Command {
	var (
		part      string
		expandAll bool
	)

	cmd := &cobra.Command{
		Use:   "lint FILE",
		Short: "Report missing parts, name conflicts and cycles in a BOM file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := bom.Load(args[0])
			if err != nil {
				return err
			}

			var ids []tree.ID
			if part != "" {
				ids = []tree.ID{tree.ID(part)}
			} else {
				for _, p := range doc.Roots() {
					ids = append(ids, p.ID.ID())
				}
			}

			total := 0
			for _, id := range ids {
				root, err := doc.Tree(id, bom.Options{
					MaxDepth:           tree.MaxDepthLimit,
					IncludeSubstitutes: true,
					ExpandAll:          expandAll,
				})
				if err != nil {
					return err
				}
				issues := tree.Lint(root)
				total += len(issues)

				printInfo("%s %s", StyleHighlight.Render(root.DisplayName()), StyleDim.Render("("+id.String()+")"))
				printStats(tree.Measure(root), false)
				printIssues(issues)
			}

			if total > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "%s: %d issues found", args[0], total)
			}
			printSuccess("No issues in %d hierarchies", len(ids))
			return nil
		},
	}

	cmd.Flags().StringVarP(&part, "part", "p", "", "lint only the hierarchy under this part")
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "expand parts not flagged as assemblies")

	return cmd
}
